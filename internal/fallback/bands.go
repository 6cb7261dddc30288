package fallback

import (
	"fmt"
	"strings"

	"github.com/sproutcare/sprout/internal/activity"
)

// AgeBand is one of eight one-year developmental bands from 2-3 to 9-10 years.
type AgeBand int

const (
	Band2to3 AgeBand = iota
	Band3to4
	Band4to5
	Band5to6
	Band6to7
	Band7to8
	Band8to9
	Band9to10

	numBands = 8
)

const youngestAge = 2

// BandForAge classifies an age in whole years. Ages outside 2-10 clamp to
// the nearest band.
func BandForAge(age int) AgeBand {
	b := age - youngestAge
	if b < 0 {
		b = 0
	}
	if b >= numBands {
		b = numBands - 1
	}
	return AgeBand(b)
}

// AllBands returns the eight bands in order.
func AllBands() []AgeBand {
	out := make([]AgeBand, numBands)
	for i := range out {
		out[i] = AgeBand(i)
	}
	return out
}

func (b AgeBand) String() string {
	lo := int(b) + youngestAge
	return fmt.Sprintf("%d-%d years", lo, lo+1)
}

// minutes is the suggested focus span used in step text.
func (b AgeBand) minutes() int {
	return 10 + 3*int(b)
}

// young reports whether the band is under four years, where small-parts
// and choking warnings apply.
func (b AgeBand) young() bool { return b <= Band3to4 }

// Supervision is the caller-declared degree of adult involvement.
type Supervision int

const (
	SupervisionNone    Supervision = iota // fully independent
	SupervisionMinimal                    // adult nearby
	SupervisionFull                       // adult actively participating
)

// AllSupervision returns the three levels in order.
func AllSupervision() []Supervision {
	return []Supervision{SupervisionNone, SupervisionMinimal, SupervisionFull}
}

func (s Supervision) String() string {
	switch s {
	case SupervisionNone:
		return "none"
	case SupervisionMinimal:
		return "minimal"
	case SupervisionFull:
		return "full"
	default:
		return fmt.Sprintf("supervision(%d)", int(s))
	}
}

// ParseSupervision accepts the level names and their common synonyms.
func ParseSupervision(s string) (Supervision, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none", "independent", "no":
		return SupervisionNone, nil
	case "minimal", "nearby", "some", "light":
		return SupervisionMinimal, nil
	case "full", "active", "participating", "hands-on":
		return SupervisionFull, nil
	}
	return 0, activity.E(activity.KindInvalid, "fallback.supervision", "unknown supervision level %q", s)
}
