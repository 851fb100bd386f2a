package simulator

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"icp-hunter/internal/domain"
)

var printer = message.NewPrinter(language.English)

// Title is the headline shown while the stage is active.
func (s Stage) Title(handle string, tier domain.TierID) string {
	switch s {
	case Activated:
		return "🎯 Gear Up Success!"
	case Scanning:
		return "🔍 Hunting @" + handle
	case Analyzing:
		return "🧠 Analyzing Profiles"
	case Scoring:
		return "📊 Calculating Hunt Scores"
	case Complete:
		if tier == domain.SneakPeek {
			return "📥 CSV Ready!"
		}
		return "🏆 Hunt Successful!"
	}
	return ""
}

// Description is the supporting line under Title.
func (s Stage) Description(t domain.Tier) string {
	sneak := t.ID == domain.SneakPeek
	switch s {
	case Activated:
		return printer.Sprintf("Your %s hunting license is activated!", t.Name)
	case Scanning:
		return printer.Sprintf("Scanning up to %d followers and analyzing patterns...", t.FollowerLimit)
	case Analyzing:
		return "Identifying potential targets and calculating relevance..."
	case Scoring:
		if sneak {
			return "Scoring profiles and preparing your CSV download..."
		}
		return "Scoring profiles and preparing your trophy collection..."
	case Complete:
		if sneak {
			return "Your CSV file is ready for download!"
		}
		return "Your trophy collection is ready!"
	}
	return ""
}

// StageView is a stage as listed on the processing screen.
type StageView struct {
	Stage       Stage  `json:"stage"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Done        bool   `json:"done"`
	Active      bool   `json:"active"`
}

// View is a render-ready snapshot of a run.
type View struct {
	State
	Stages     []StageView `json:"stages"`
	ETASeconds int         `json:"etaSeconds"`
	Scope      string      `json:"scope"`
	Detail     string      `json:"detail,omitempty"`
}

// Describe turns a state into a View for the given target.
func Describe(s State, t domain.Tier, handle string) View {
	p := ParamsFor(t)
	v := View{
		State:      s,
		ETASeconds: int(math.Ceil(s.ETA(p).Seconds())),
		Scope:      printer.Sprintf("%d followers", t.FollowerLimit),
	}
	for st := Activated; st <= Complete; st++ {
		v.Stages = append(v.Stages, StageView{
			Stage:       st,
			Title:       st.Title(handle, t.ID),
			Description: st.Description(t),
			Done:        st < s.Stage || s.HandedOff,
			Active:      st == s.Stage && !s.HandedOff,
		})
	}
	switch s.Stage {
	case Scanning:
		v.Detail = printer.Sprintf("Profiles scanned: %d/%d", s.ProfilesScanned, t.FollowerLimit)
	case Analyzing:
		v.Detail = printer.Sprintf("Potential targets found: %d • High-value prospects: %d", s.PotentialTargets, s.HighValueProspects)
	case Scoring:
		v.Detail = "Calculating relevance scores and filtering best matches..."
	}
	return v
}
