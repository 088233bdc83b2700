package main

import (
	"fmt"
	"runtime"
	"strconv"

	"github.com/flowarts/pictograph/internal/config"
	"github.com/flowarts/pictograph/internal/dispatcher"
	"github.com/flowarts/pictograph/internal/engine"
	"github.com/flowarts/pictograph/internal/logging"
	"github.com/flowarts/pictograph/internal/placement"
	"github.com/flowarts/pictograph/internal/special"
	"github.com/flowarts/pictograph/internal/storage"
	"github.com/flowarts/pictograph/pkg/core"
)

const defaultFramesPerBeat = 10

func (a *app) register(d *dispatcher.Dispatcher) {
	d.Register("frames", a.handleFrames, dispatcher.Logged(), dispatcher.MinArgs(1),
		dispatcher.Usage("<seq.json> [framesPerBeat]"))
	d.Register("state", a.handleState, dispatcher.Logged(), dispatcher.MinArgs(2),
		dispatcher.Usage("<seq.json> <beat>"))
	d.Register("keys", a.handleKeys, dispatcher.Logged(), dispatcher.MinArgs(2),
		dispatcher.Usage("<seq.json> <beat>"))
	d.Register("trace", a.handleTrace, dispatcher.Logged(), dispatcher.MinArgs(2),
		dispatcher.Usage("<seq.json> <blue|red> [framesPerBeat]"))
	d.Register("version", handleVersion)
}

func versionString() string {
	return fmt.Sprintf("%s %s (built %s)", AppName, CurrentVersion, BuildDate)
}

// version
func handleVersion(dispatcher.Event) (any, error) {
	return versionString(), nil
}

func (a *app) loadSequence(path string) (core.Sequence, error) {
	seq, err := a.parser.ReadSequenceFile(path)
	if err != nil {
		return core.Sequence{}, err
	}
	a.scope.SetWord(seq.Metadata.Word)
	return seq, nil
}

func parseFramesPerBeat(args []string, i int) (int, error) {
	if len(args) <= i {
		return defaultFramesPerBeat, nil
	}
	n, err := strconv.Atoi(args[i])
	if err != nil || n < 1 {
		return 0, fmt.Errorf("framesPerBeat must be a positive integer, got %q", args[i])
	}
	return n, nil
}

func (a *app) sampleFrames(seq core.Sequence, framesPerBeat int) ([]engine.Frame, error) {
	return engine.SampleFrames(a.ctx, seq, a.calc, config.GetProjectionConfig(), framesPerBeat, runtime.GOMAXPROCS(0))
}

// frames <seq.json> [framesPerBeat]
func (a *app) handleFrames(e dispatcher.Event) (any, error) {
	fpb, err := parseFramesPerBeat(e.Args, 1)
	if err != nil {
		return nil, err
	}
	seq, err := a.loadSequence(e.Args[0])
	if err != nil {
		return nil, err
	}
	return a.sampleFrames(seq, fpb)
}

// state <seq.json> <beat>
func (a *app) handleState(e dispatcher.Event) (any, error) {
	beat, err := strconv.ParseFloat(e.Args[1], 64)
	if err != nil {
		return nil, fmt.Errorf("invalid beat %q: %w", e.Args[1], err)
	}
	seq, err := a.loadSequence(e.Args[0])
	if err != nil {
		return nil, err
	}

	a.scope.SetBeat(beat)
	defer a.scope.ClearBeat()

	eng := engine.New(a.calc, config.GetProjectionConfig(), a.logger)
	if err := eng.Initialize(seq); err != nil {
		return nil, err
	}
	st, err := eng.CalculateState(beat)
	if err != nil {
		return nil, err
	}
	return engine.Frame{Beat: beat, State: st}, nil
}

type propKeys struct {
	Key    string      `json:"key"`
	Offset core.Offset `json:"offset"`
	Found  bool        `json:"found"`
}

type keysResult struct {
	Beat    int         `json:"beat"`
	Letter  string      `json:"letter"`
	Special special.Key `json:"special"`
	Blue    propKeys    `json:"blue"`
	Red     propKeys    `json:"red"`
}

// keys <seq.json> <beat>
func (a *app) handleKeys(e dispatcher.Event) (any, error) {
	beat, err := strconv.Atoi(e.Args[1])
	if err != nil {
		return nil, fmt.Errorf("invalid beat %q: %w", e.Args[1], err)
	}
	seq, err := a.loadSequence(e.Args[0])
	if err != nil {
		return nil, err
	}
	step, ok := seq.Element(beat + 1)
	if !ok || beat < 0 {
		return nil, fmt.Errorf("beat %d out of range [0, %d]", beat, seq.Metadata.TotalBeats)
	}

	table, err := storage.New(config.GetStorageConfig(), storage.Dependencies{
		Logger:   a.logger,
		DBLogger: logging.NewZerolog(a.dbLogOut, config.GetString("logLevel")),
	})
	if err != nil {
		return nil, err
	}
	defer table.Close()
	if err := table.Init(); err != nil {
		return nil, err
	}

	a.scope.SetBeat(float64(beat))
	defer a.scope.ClearBeat()

	ctx := placement.ContextFromStep(step)
	res := keysResult{
		Beat:    beat,
		Letter:  step.Letter,
		Special: special.StepKey(step),
	}
	for _, c := range []core.PropColor{core.Blue, core.Red} {
		p, err := storage.Resolve(table, a.generator, c, step.Attributes(c), ctx)
		if err != nil {
			return nil, err
		}
		pk := propKeys{Key: p.Key, Offset: p.Offset, Found: p.Found}
		if c == core.Red {
			res.Red = pk
		} else {
			res.Blue = pk
		}
	}
	return res, nil
}

// trace <seq.json> <blue|red> [framesPerBeat]
func (a *app) handleTrace(e dispatcher.Event) (any, error) {
	color, ok := core.ParsePropColor(e.Args[1])
	if !ok {
		return nil, fmt.Errorf("invalid prop color %q", e.Args[1])
	}
	fpb, err := parseFramesPerBeat(e.Args, 2)
	if err != nil {
		return nil, err
	}
	seq, err := a.loadSequence(e.Args[0])
	if err != nil {
		return nil, err
	}

	frames, err := a.sampleFrames(seq, fpb)
	if err != nil {
		return nil, err
	}
	ls, err := engine.TracePath(frames, color)
	if err != nil {
		return nil, err
	}
	return ls.AsText(), nil
}
