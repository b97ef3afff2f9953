package championships

import (
	"sort"
	"time"

	"brk-portal/internal/models"
)

type RegulationGroup struct {
	Season      models.Season       `json:"season"`
	Regulations []models.Regulation `json:"regulations"`
}

// GroupRegulations puts active regulations under their season, sorted by
// Order. Groups follow season start date, newest first; seasons without
// regulations are left out.
func GroupRegulations(regs []models.Regulation, seasons []models.Season, loc *time.Location) []RegulationGroup {
	bySeason := map[string][]models.Regulation{}
	for _, r := range regs {
		if !r.IsActive {
			continue
		}
		bySeason[r.SeasonID] = append(bySeason[r.SeasonID], r)
	}

	ordered := make([]models.Season, len(seasons))
	copy(ordered, seasons)
	SortSeasonsDesc(ordered, loc)

	out := make([]RegulationGroup, 0, len(ordered))
	for _, s := range ordered {
		list := bySeason[s.ID]
		if len(list) == 0 {
			continue
		}
		sort.SliceStable(list, func(i, j int) bool { return list[i].Order < list[j].Order })
		out = append(out, RegulationGroup{Season: s, Regulations: list})
	}
	return out
}
