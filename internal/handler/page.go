package handler

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/AlexZinkM/phantom-waitlist/internal/model"
	"github.com/AlexZinkM/phantom-waitlist/solana"

	"github.com/rs/zerolog/hlog"
)

//go:embed templates/index.html
var templatesFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templatesFS, "templates/index.html"))

type pageData struct {
	View        model.SessionView
	AutoConnect bool
	BrowseURL   string
}

// Index handles GET /, the only page. It renders exactly one screen for the session.
func (h *WaitlistHandler) Index(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed. Should be GET", http.StatusMethodNotAllowed)
		return
	}

	_, s := h.sessions.FromRequest(w, r)

	// quick-connect: ?walletAddress=<base58> binds the address and drops the query
	if addr := r.URL.Query().Get("walletAddress"); addr != "" {
		if pk, err := solana.ParseAddress(addr); err == nil {
			s.SetWalletAddress(pk.String())
		} else {
			s.SetNotice("That wallet address is not valid.")
		}
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	view := sessionView(s.Snapshot())
	s.TakeNotice()

	data := pageData{
		View:        view,
		AutoConnect: r.URL.Query().Get("autoconnect") == "true",
		BrowseURL:   solana.BrowseURL(h.publicURL+"/?autoconnect=true", h.appRef),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if err := pageTemplate.Execute(w, data); err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("failed to render page")
	}
}
