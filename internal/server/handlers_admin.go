package server

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/iinyiska/dextrend/internal/content"
	"github.com/iinyiska/dextrend/internal/domain"
)

func (s *Server) handleAdminLogin(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeBody(r, &body); err != nil {
		s.writeError(w, http.StatusBadRequest, ErrCodeInvalidInput, "malformed body")
		return
	}

	session, err := s.content.Login(r.Context(), body.Email, body.Password)
	if err != nil {
		if errors.Is(err, content.ErrInvalidCredentials) {
			s.writeError(w, http.StatusUnauthorized, ErrCodeInvalidCredentials, "invalid credentials")
			return
		}
		s.internalError(w, "admin login", err)
		return
	}
	s.writeJSON(w, http.StatusOK, session)
}

func (s *Server) handleAdminLogout(w http.ResponseWriter, r *http.Request) {
	if err := s.content.Logout(r.Context(), r.Header.Get(AdminTokenHeader)); err != nil {
		s.internalError(w, "admin logout", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSettingsGet(w http.ResponseWriter, r *http.Request) {
	settings, err := s.content.GetSettings(r.Context())
	if err != nil {
		s.internalError(w, "get settings", err)
		return
	}
	s.writeJSON(w, http.StatusOK, settings)
}

func (s *Server) handleSettingsPut(w http.ResponseWriter, r *http.Request) {
	var settings domain.SiteSettings
	if err := decodeBody(r, &settings); err != nil {
		s.writeError(w, http.StatusBadRequest, ErrCodeInvalidInput, "malformed body")
		return
	}

	if err := s.content.SaveSettings(r.Context(), &settings); err != nil {
		s.storeError(w, "save settings", err)
		return
	}
	s.writeJSON(w, http.StatusOK, settings)
}

func (s *Server) handleBannersList(w http.ResponseWriter, r *http.Request) {
	banners, err := s.content.ListBanners(r.Context(), false, r.URL.Query().Get("position"))
	if err != nil {
		s.internalError(w, "list banners", err)
		return
	}
	if banners == nil {
		banners = []*domain.Banner{}
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"banners": banners})
}

func (s *Server) handleBannerCreate(w http.ResponseWriter, r *http.Request) {
	var banner domain.Banner
	if err := decodeBody(r, &banner); err != nil {
		s.writeError(w, http.StatusBadRequest, ErrCodeInvalidInput, "malformed body")
		return
	}

	created, err := s.content.CreateBanner(r.Context(), &banner)
	if err != nil {
		s.storeError(w, "create banner", err)
		return
	}
	s.writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleBannerUpdate(w http.ResponseWriter, r *http.Request) {
	var banner domain.Banner
	if err := decodeBody(r, &banner); err != nil {
		s.writeError(w, http.StatusBadRequest, ErrCodeInvalidInput, "malformed body")
		return
	}
	banner.ID = mux.Vars(r)["id"]

	if err := s.content.UpdateBanner(r.Context(), &banner); err != nil {
		s.storeError(w, "update banner", err)
		return
	}
	s.writeJSON(w, http.StatusOK, banner)
}

func (s *Server) handleBannerDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.content.DeleteBanner(r.Context(), mux.Vars(r)["id"]); err != nil {
		s.storeError(w, "delete banner", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAdsList(w http.ResponseWriter, r *http.Request) {
	ads, err := s.content.ListAds(r.Context(), false, r.URL.Query().Get("position"))
	if err != nil {
		s.internalError(w, "list ads", err)
		return
	}
	if ads == nil {
		ads = []*domain.Ad{}
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"ads": ads})
}

func (s *Server) handleAdCreate(w http.ResponseWriter, r *http.Request) {
	var ad domain.Ad
	if err := decodeBody(r, &ad); err != nil {
		s.writeError(w, http.StatusBadRequest, ErrCodeInvalidInput, "malformed body")
		return
	}

	created, err := s.content.CreateAd(r.Context(), &ad)
	if err != nil {
		s.storeError(w, "create ad", err)
		return
	}
	s.writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleAdUpdate(w http.ResponseWriter, r *http.Request) {
	var ad domain.Ad
	if err := decodeBody(r, &ad); err != nil {
		s.writeError(w, http.StatusBadRequest, ErrCodeInvalidInput, "malformed body")
		return
	}
	ad.ID = mux.Vars(r)["id"]

	if err := s.content.UpdateAd(r.Context(), &ad); err != nil {
		s.storeError(w, "update ad", err)
		return
	}
	s.writeJSON(w, http.StatusOK, ad)
}

func (s *Server) handleAdDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.content.DeleteAd(r.Context(), mux.Vars(r)["id"]); err != nil {
		s.storeError(w, "delete ad", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handlePromotedList(w http.ResponseWriter, r *http.Request) {
	tokens, err := s.content.ListPromotedTokens(r.Context(), false)
	if err != nil {
		s.internalError(w, "list promoted", err)
		return
	}
	if tokens == nil {
		tokens = []*domain.PromotedToken{}
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"tokens": tokens})
}

func (s *Server) handlePromotedCreate(w http.ResponseWriter, r *http.Request) {
	var token domain.PromotedToken
	if err := decodeBody(r, &token); err != nil {
		s.writeError(w, http.StatusBadRequest, ErrCodeInvalidInput, "malformed body")
		return
	}

	created, err := s.content.CreatePromotedToken(r.Context(), &token)
	if err != nil {
		s.storeError(w, "create promoted token", err)
		return
	}
	s.writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handlePromotedUpdate(w http.ResponseWriter, r *http.Request) {
	var token domain.PromotedToken
	if err := decodeBody(r, &token); err != nil {
		s.writeError(w, http.StatusBadRequest, ErrCodeInvalidInput, "malformed body")
		return
	}
	token.ID = mux.Vars(r)["id"]

	if err := s.content.UpdatePromotedToken(r.Context(), &token); err != nil {
		s.storeError(w, "update promoted token", err)
		return
	}
	s.writeJSON(w, http.StatusOK, token)
}

func (s *Server) handlePromotedDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.content.DeletePromotedToken(r.Context(), mux.Vars(r)["id"]); err != nil {
		s.storeError(w, "delete promoted token", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Public site content, filtered to active records.

func (s *Server) handleSiteSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := s.content.GetSettings(r.Context())
	if err != nil {
		s.internalError(w, "site settings", err)
		return
	}
	s.writeJSON(w, http.StatusOK, settings)
}

func (s *Server) handleSiteBanners(w http.ResponseWriter, r *http.Request) {
	banners, err := s.content.ListBanners(r.Context(), true, r.URL.Query().Get("position"))
	if err != nil {
		s.internalError(w, "site banners", err)
		return
	}
	if banners == nil {
		banners = []*domain.Banner{}
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"banners": banners})
}

func (s *Server) handleSiteAds(w http.ResponseWriter, r *http.Request) {
	ads, err := s.content.ListAds(r.Context(), true, r.URL.Query().Get("position"))
	if err != nil {
		s.internalError(w, "site ads", err)
		return
	}
	if ads == nil {
		ads = []*domain.Ad{}
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"ads": ads})
}

func (s *Server) handleSitePromoted(w http.ResponseWriter, r *http.Request) {
	tokens, err := s.content.ListPromotedTokens(r.Context(), true)
	if err != nil {
		s.internalError(w, "site promoted", err)
		return
	}
	if tokens == nil {
		tokens = []*domain.PromotedToken{}
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"tokens": tokens})
}
