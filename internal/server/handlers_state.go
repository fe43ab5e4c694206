package server

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/iinyiska/dextrend/internal/domain"
)

func (s *Server) handleWatchlistGet(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{"entries": s.state.Watchlist()})
}

func (s *Server) handleWatchlistAdd(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ChainID     string `json:"chainId"`
		PairAddress string `json:"pairAddress"`
	}
	if err := decodeBody(r, &body); err != nil {
		s.writeError(w, http.StatusBadRequest, ErrCodeInvalidInput, "malformed body")
		return
	}

	if err := s.state.AddToWatchlist(r.Context(), body.ChainID, body.PairAddress); err != nil {
		s.storeError(w, "add to watchlist", err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"entries": s.state.Watchlist(),
		"watched": true,
	})
}

func (s *Server) handleWatchlistRemove(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	if err := s.state.RemoveFromWatchlist(r.Context(), vars["chain"], vars["pair"]); err != nil {
		s.storeError(w, "remove from watchlist", err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"entries": s.state.Watchlist(),
		"watched": false,
	})
}

// handleWatchlistPairs resolves each watchlist entry to a live pair
// snapshot. Entries the upstream no longer knows are dropped from the
// response but stay on the list.
func (s *Server) handleWatchlistPairs(w http.ResponseWriter, r *http.Request) {
	pairs := s.resolveWatchlistPairs(r.Context(), s.state.Watchlist())
	s.writeJSON(w, http.StatusOK, map[string]any{"pairs": pairs})
}

func (s *Server) handleThemeGet(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"theme": s.state.Theme()})
}

func (s *Server) handleThemePut(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Theme string `json:"theme"`
	}
	if err := decodeBody(r, &body); err != nil {
		s.writeError(w, http.StatusBadRequest, ErrCodeInvalidInput, "malformed body")
		return
	}

	if body.Theme == "toggle" {
		next, err := s.state.ToggleTheme(r.Context())
		if err != nil {
			s.internalError(w, "toggle theme", err)
			return
		}
		s.writeJSON(w, http.StatusOK, map[string]string{"theme": next})
		return
	}

	if err := s.state.SetTheme(r.Context(), body.Theme); err != nil {
		s.storeError(w, "set theme", err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"theme": s.state.Theme()})
}

func (s *Server) handleChainGet(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"chain":     s.state.SelectedChain(),
		"supported": domain.SupportedChains,
	})
}

func (s *Server) handleChainPut(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Chain string `json:"chain"`
	}
	if err := decodeBody(r, &body); err != nil {
		s.writeError(w, http.StatusBadRequest, ErrCodeInvalidInput, "malformed body")
		return
	}

	if err := s.state.SetSelectedChain(r.Context(), body.Chain); err != nil {
		s.storeError(w, "set selected chain", err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"chain": s.state.SelectedChain()})
}
