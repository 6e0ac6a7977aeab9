package companies

import (
	"sort"
	"strings"
	"time"

	"github.com/knitinfo/knitinfo-backend/pkg/db/models"
)

// CompletenessScore counts the populated optional fields of a listing. More
// complete profiles rank higher in the base ordering.
func CompletenessScore(c models.Company) int {
	score := 0
	if strings.TrimSpace(c.Phone) != "" {
		score++
	}
	for _, field := range []*string{
		c.ContactPerson,
		c.Email,
		c.Website,
		c.Address,
		c.Description,
		c.GSTNumber,
		c.Certifications,
	} {
		if field != nil && strings.TrimSpace(*field) != "" {
			score++
		}
	}
	if len(c.Products) > 0 {
		score++
	}
	return score
}

// ApplyOverrides produces the final category ordering: companies without an
// active override are sorted by completeness then recency, then each
// overridden company is spliced back in at its requested position (1-based,
// clamped to the list bounds). The merge keeps the relative order of the
// base list intact around each insertion.
func ApplyOverrides(listing []models.Company, overrides []models.PriorityOverride, now time.Time) []models.Company {
	active := make(map[string]models.PriorityOverride, len(overrides))
	for _, o := range overrides {
		if o.ExpiredAt(now) {
			continue
		}
		active[strings.ToLower(strings.TrimSpace(o.CompanyName))] = o
	}

	type pinned struct {
		company  models.Company
		position int
	}

	base := make([]models.Company, 0, len(listing))
	var promoted []pinned
	for _, c := range listing {
		if o, ok := active[strings.ToLower(strings.TrimSpace(c.Name))]; ok {
			promoted = append(promoted, pinned{company: c, position: o.Position})
			continue
		}
		base = append(base, c)
	}

	sort.SliceStable(base, func(i, j int) bool {
		si, sj := CompletenessScore(base[i]), CompletenessScore(base[j])
		if si != sj {
			return si > sj
		}
		return base[i].CreatedAt.After(base[j].CreatedAt)
	})

	sort.SliceStable(promoted, func(i, j int) bool {
		if promoted[i].position != promoted[j].position {
			return promoted[i].position < promoted[j].position
		}
		return promoted[i].company.CreatedAt.After(promoted[j].company.CreatedAt)
	})

	out := base
	for _, p := range promoted {
		at := p.position - 1
		if at < 0 {
			at = 0
		}
		if at > len(out) {
			at = len(out)
		}
		out = append(out, models.Company{})
		copy(out[at+1:], out[at:])
		out[at] = p.company
	}
	return out
}
