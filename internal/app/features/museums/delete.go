// internal/app/features/museums/delete.go
package museums

import (
	"context"
	"errors"
	"net/http"

	museumstore "github.com/dalemusser/exhibithub/internal/app/store/museums"
	"github.com/dalemusser/exhibithub/internal/app/system/navigation"
	"github.com/dalemusser/exhibithub/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// HandleDelete removes a museum. A museum that exhibitions still reference
// is kept, and the operator is sent back to its edit page with the reason.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	m, ok := h.loadMuseum(ctx, w, r)
	if !ok {
		return
	}

	_, err := h.store.Delete(ctx, m.ID)
	if errors.Is(err, museumstore.ErrMuseumInUse) {
		h.Log.Info("museum delete refused", zap.String("museum_id", m.ID.Hex()))
		h.Flash.Add(w, r, "This museum still has exhibitions. Delete them before deleting the museum.")
		http.Redirect(w, r, "/museums/"+m.ID.Hex()+"/edit", http.StatusSeeOther)
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "delete museum failed", err, "A database error occurred.", listPath)
		return
	}

	h.Audit.MuseumDeleted(ctx, r, m.ID.Hex(), m.Name)
	h.Log.Info("museum deleted", zap.String("museum_id", m.ID.Hex()))

	h.Flash.Add(w, r, "Museum deleted.")
	http.Redirect(w, r, navigation.SafeBackURL(r, navigation.MuseumsBackURL), http.StatusSeeOther)
}
