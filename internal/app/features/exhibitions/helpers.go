// internal/app/features/exhibitions/helpers.go
package exhibitions

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/dalemusser/exhibithub/internal/app/system/civildate"
	"github.com/dalemusser/exhibithub/internal/app/system/inputval"
	"github.com/dalemusser/exhibithub/internal/app/system/navigation"
	"github.com/dalemusser/exhibithub/internal/domain/models"
)

func formValue(r *http.Request, key string) string {
	return strings.TrimSpace(r.FormValue(key))
}

func (h *Handler) museumOptions(ctx context.Context, selected string) ([]option, error) {
	museums, err := h.museums.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]option, 0, len(museums))
	for _, m := range museums {
		id := m.ID.Hex()
		out = append(out, option{Value: id, Label: m.Name, Selected: id == selected})
	}
	return out, nil
}

func statusOptions(selected string) []option {
	if selected == "" {
		selected = models.ExhibitionStatusPending
	}
	return filterOptions(models.ExhibitionStatuses, statusLabels, []string{selected})
}

// parseDates converts validated date strings and checks their order.
// Messages are added to res under the form field names.
func parseDates(startStr, endStr string, res *inputval.Result) (start, end *time.Time) {
	var err error
	if start, err = civildate.Parse(startStr); err != nil {
		res.Add("start_date", "start date must be a valid date")
	}
	if end, err = civildate.Parse(endStr); err != nil {
		res.Add("end_date", "end date must be a valid date")
	}
	if start != nil && end != nil && end.Before(*start) {
		res.Add("end_date", "end date must not be before start date")
	}
	return start, end
}

// backURL is the listing the operator came from, falling back to /exhibitions.
func backURL(r *http.Request) string {
	return navigation.SafeBackURL(r, navigation.ExhibitionsBackURL)
}

// redirectBack finishes a mutation with a flash and a 303 to the listing.
func (h *Handler) redirectBack(w http.ResponseWriter, r *http.Request, msg string) {
	h.Flash.Add(w, r, msg)
	http.Redirect(w, r, backURL(r), http.StatusSeeOther)
}

// changedFields lists the edited fields that differ from the stored document.
func changedFields(old models.Exhibition, in editInput, start, end *time.Time) string {
	var out []string
	if old.Title != in.Title {
		out = append(out, "title")
	}
	if civildate.Format(old.StartDate) != civildate.Format(start) {
		out = append(out, "start_date")
	}
	if civildate.Format(old.EndDate) != civildate.Format(end) {
		out = append(out, "end_date")
	}
	if old.OfficialURL != in.OfficialURL {
		out = append(out, "official_url")
	}
	if old.ImageURL != in.ImageURL {
		out = append(out, "image_url")
	}
	if in.Status != "" && old.Status != in.Status {
		out = append(out, "status")
	}
	return strings.Join(out, ",")
}
