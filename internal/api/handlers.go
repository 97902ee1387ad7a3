package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/coderefine/coderefine/internal/client"
	"github.com/coderefine/coderefine/internal/model"
)

// --- Health ---

type healthResponse struct {
	Status string `json:"status"`
	Bridge string `json:"bridge"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	bridge := "cloud-only"
	if s.client.CheckStatus(r.Context()) {
		bridge = "hybrid"
	}
	s.writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Bridge: bridge})
}

// --- Catalog ---

type catalogResponse struct {
	Modes     []string `json:"modes"`
	Languages []string `json:"languages"`
	Providers []string `json:"providers"`
}

// Providers the analysis service can route to.
var providers = []string{"gemini", "groq", "huggingface"}

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	var modes []string
	for _, m := range model.Modes() {
		modes = append(modes, m.String())
	}
	s.writeJSON(w, http.StatusOK, catalogResponse{
		Modes:     modes,
		Languages: model.Languages(),
		Providers: providers,
	})
}

// --- Analyze ---

type analyzeRequest struct {
	Code        string `json:"code"`
	Language    string `json:"language"`
	Provider    string `json:"provider"`
	Mode        string `json:"mode"`
	Alternative bool   `json:"alternative"`
}

func (r analyzeRequest) toModel() (model.Request, error) {
	if strings.TrimSpace(r.Code) == "" {
		return model.Request{}, errors.New("code is required")
	}
	mode, err := model.ParseMode(r.Mode)
	if err != nil {
		return model.Request{}, err
	}
	req := model.Request{
		Code:        r.Code,
		Language:    r.Language,
		Provider:    r.Provider,
		Mode:        mode,
		Alternative: r.Alternative,
	}
	if req.Language == "" {
		req.Language = model.AutoDetect
	}
	if req.Provider == "" {
		req.Provider = "gemini"
	}
	return req, nil
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := readJSON(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	mreq, err := req.toModel()
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := s.client.Analyze(r.Context(), mreq)
	if err != nil {
		var se *client.ServiceError
		if errors.As(err, &se) && se.Kind == client.KindTimeout {
			s.writeError(w, http.StatusGatewayTimeout, se.Message)
			return
		}
		s.writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	s.writeJSON(w, http.StatusOK, result)
}
