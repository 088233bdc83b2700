// Package special derives the orientation key of the secondary
// special-placement table.
package special

import "github.com/flowarts/pictograph/pkg/core"

// Key is one of the four special-placement orientation keys.
type Key string

const (
	FromLayer1          Key = "from_layer1"
	FromLayer2          Key = "from_layer2"
	FromLayer3Blue1Red2 Key = "from_layer3_blue1_red2"
	FromLayer3Blue2Red1 Key = "from_layer3_blue2_red1"
)

func (k Key) String() string {
	return string(k)
}

// layerOf classifies in/out (and an absent orientation) as layer 1 and
// everything else as layer 2.
func layerOf(o core.Orientation) int {
	if o.IsRadial() {
		return 1
	}
	return 2
}

// OrientationKey returns the key for a pictograph's blue and red end orientations.
func OrientationKey(blueEndOri, redEndOri core.Orientation) Key {
	switch [2]int{layerOf(blueEndOri), layerOf(redEndOri)} {
	case [2]int{1, 1}:
		return FromLayer1
	case [2]int{2, 2}:
		return FromLayer2
	case [2]int{1, 2}:
		return FromLayer3Blue1Red2
	case [2]int{2, 1}:
		return FromLayer3Blue2Red1
	}
	return FromLayer1
}

// StepKey returns the key for a step's end orientations.
func StepKey(step core.StepDefinition) Key {
	return OrientationKey(step.Blue.EndOri, step.Red.EndOri)
}
