package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/ecosync/ecosync/internal/client/forms"
	"github.com/ecosync/ecosync/internal/client/models"
)

// Header renders the profile bar. It depends only on the user record, so a
// restored session and a fresh login look the same.
func (s Styles) Header(u *models.User) string {
	if u == nil {
		return s.Bar.Render("EcoSync") + " " + s.Muted.Render("not signed in")
	}
	return s.Bar.Render("EcoSync") + " " + s.Title.Render(u.Name) + " " +
		s.Muted.Render(fmt.Sprintf("%s, semester %d", u.Department, u.Semester))
}

// Message renders the outcome of a form submit.
func (s Styles) Message(out forms.Outcome) string {
	switch out.State {
	case forms.Success:
		return s.Success.Render("✅ " + out.Message)
	case forms.DomainError:
		return s.Warning.Render("⚠️ " + out.Message)
	case forms.NetworkError, forms.Failed:
		return s.Error.Render("❌ " + out.Message)
	}
	return out.Message
}

func (s Styles) LostFoundList(reports []models.LostFoundReport, now time.Time) string {
	if len(reports) == 0 {
		return s.Muted.Render("No lost or found reports.")
	}

	cards := make([]string, 0, len(reports))
	for _, r := range reports {
		badge := s.Found.Render(strings.ToUpper(r.Type))
		if r.Type == models.ReportLost {
			badge = s.Lost.Render(strings.ToUpper(r.Type))
		}

		var b strings.Builder
		b.WriteString(badge)
		if !r.CreatedAt.IsZero() {
			b.WriteString("  " + s.Muted.Render(humanize.RelTime(r.CreatedAt.Time, now, "ago", "from now")))
		}
		b.WriteString("\n" + s.Title.Render(r.ItemName))
		if r.Category != "" {
			b.WriteString(" " + s.Muted.Render("("+r.Category+")"))
		}
		if r.Description != "" {
			b.WriteString("\n" + r.Description)
		}
		if r.PhotoURL != "" {
			b.WriteString("\n" + s.Muted.Render("photo: "+r.PhotoURL))
		}
		cards = append(cards, s.Card.Render(b.String()))
	}
	return strings.Join(cards, "\n")
}

func (s Styles) ItemsList(items []models.Item) string {
	if len(items) == 0 {
		return s.Muted.Render("No items listed yet.")
	}

	lines := make([]string, 0, len(items))
	for _, it := range items {
		lines = append(lines, fmt.Sprintf("%s %s %s",
			s.Rank.Render(fmt.Sprintf("#%d", it.ID)),
			s.Title.Render(it.Name),
			s.Muted.Render(strings.Join(nonEmpty(it.Category, it.Condition, it.Status), " · "))))
	}
	return strings.Join(lines, "\n")
}

// MatchKind names a match type for display.
func MatchKind(typ string) string {
	if typ == models.MatchThreeWay {
		return "Three-way cycle"
	}
	return "Direct swap"
}

// MatchesList renders the matches of viewer. Pending matches viewer has not
// accepted yet show how to accept them.
func (s Styles) MatchesList(matches []models.Match, viewer int64) string {
	if len(matches) == 0 {
		return s.Muted.Render("No matches yet.")
	}

	cards := make([]string, 0, len(matches))
	for _, m := range matches {
		var b strings.Builder
		b.WriteString(s.Title.Render(MatchKind(m.Type)) + " " + s.Muted.Render(fmt.Sprintf("#%d %s", m.ID, m.Status)))
		for _, p := range m.Participants {
			fmt.Fprintf(&b, "\n%s ➔ %s", p.UserName, p.Wants)
		}
		if m.Explanation != "" {
			b.WriteString("\n" + s.Muted.Render(m.Explanation))
		}
		if m.Status != models.MatchCompleted && !m.AcceptedByUser(viewer) {
			b.WriteString("\n" + s.Info.Render(fmt.Sprintf("accept %d to authorize", m.ID)))
		}
		cards = append(cards, s.Card.Render(b.String()))
	}
	return strings.Join(cards, "\n")
}

func (s Styles) Leaderboard(entries []models.LeaderboardEntry) string {
	if len(entries) == 0 {
		return s.Muted.Render("Leaderboard is empty.")
	}

	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, fmt.Sprintf("%s %s %s",
			s.Rank.Render(fmt.Sprintf("#%d", e.Rank)),
			e.UserName,
			s.Success.Render(humanize.Comma(int64(e.TotalEcoCredits)))))
	}
	return strings.Join(lines, "\n")
}

// UploadCard renders the analysis of a freshly listed item.
func (s Styles) UploadCard(res models.PhotoUploadResult) string {
	desc := res.Analysis.Description
	if desc == "" {
		desc = "No description."
	}

	var b strings.Builder
	b.WriteString(s.Title.Render(res.Item.Name) + "  " +
		s.Success.Render(fmt.Sprintf("Confidence: %.0f%%", res.Analysis.Confidence*100)))
	b.WriteString("\n" + s.Muted.Render(desc))
	fmt.Fprintf(&b, "\n🏷️ %s   ✨ %s", res.Item.Category, res.Item.Condition)
	b.WriteString("\n" + s.Success.Render(fmt.Sprintf("🌿 Eco-Score: %d/10", res.Analysis.EcoValue)))
	if len(res.Analysis.SuggestedWants) > 0 {
		b.WriteString("\n" + s.Muted.Render("could trade for: "+strings.Join(res.Analysis.SuggestedWants, ", ")))
	}
	return s.Card.Render(b.String())
}

func nonEmpty(vals ...string) []string {
	var out []string
	for _, v := range vals {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
