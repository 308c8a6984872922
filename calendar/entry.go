package calendar

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/wcraigtrader/wbc/schedule"
)

// Category buckets entries into the small display palette: one color per
// stage family, with featured tournaments promoted to their own bucket.
type Category string

const (
	CategoryDemo         Category = "demo"
	CategoryQualifier    Category = "qualifier"
	CategoryElimination  Category = "elimination"
	CategoryChampionship Category = "championship"
	CategoryFeatured     Category = "featured"
	CategoryOther        Category = "other"
)

// Entry is the synthesized output unit, one per validated event. Instants
// are UTC; Location is the normalized room name.
type Entry struct {
	UID         string    `json:"uid"`
	Code        string    `json:"code"`
	Kind        string    `json:"kind"`
	Summary     string    `json:"summary"`
	Description string    `json:"description,omitempty"`
	Location    string    `json:"location"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	Category    Category  `json:"category"`
	URL         string    `json:"url,omitempty"`
	Contact     string    `json:"contact,omitempty"`
	Flags       []string  `json:"flags,omitempty"`
}

func (e Entry) Equals(other Entry) bool {
	return e.UID == other.UID &&
		e.Summary == other.Summary &&
		e.Location == other.Location &&
		e.Start.Equal(other.Start) &&
		e.End.Equal(other.End) &&
		e.Category == other.Category
}

// namespace for SHA1 uids; never change it, calendar clients de-duplicate
// on the uids it produces.
var namespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("http://boardgamers.org/wbc"))

// EntryUID derives the stable entry identifier. It is a pure function of
// (code, kind, start), so re-running the engine on unchanged source data
// reproduces identical uids regardless of row order. Two events sharing all
// three inputs collide by construction; the synthesizer suffixes such exact
// duplicates before entries leave it.
func EntryUID(code string, kind schedule.Kind, start time.Time) string {
	seed := fmt.Sprintf("%s|%s|%s", code, kind, start.UTC().Format(time.RFC3339))
	return uuid.NewSHA1(namespace, []byte(seed)).String()
}

func categorize(kind schedule.Kind, featured bool) Category {
	if featured && kind.Stage != schedule.StageOther {
		return CategoryFeatured
	}
	switch kind.Stage {
	case schedule.StageDemo, schedule.StageMulligan:
		return CategoryDemo
	case schedule.StageHeat:
		return CategoryQualifier
	case schedule.StageRound, schedule.StageQuarterfinal:
		return CategoryElimination
	case schedule.StageSemifinal, schedule.StageFinal:
		return CategoryChampionship
	}
	return CategoryOther
}
