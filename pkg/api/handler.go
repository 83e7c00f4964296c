package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/hazyhaar/scrutin/pkg/election"
	"github.com/hazyhaar/scrutin/pkg/kit"
)

// NewRouter returns an http.Handler with all election API routes.
func NewRouter(eps Endpoints, eng *election.Engine) http.Handler {
	mux := http.NewServeMux()
	h := &handler{eps: eps, eng: eng}

	mux.HandleFunc("GET /v1/ridings", h.handleListRidings)
	mux.HandleFunc("GET /v1/ridings/{code}", h.handleGetRiding)
	mux.HandleFunc("GET /v1/ridings/{code}/votes", h.handlePartyVotes)
	mux.HandleFunc("GET /v1/ridings/{code}/winner", h.handleWinner)
	mux.HandleFunc("GET /v1/provinces/{province}/ridings", h.handleProvinceRidings)
	mux.HandleFunc("GET /v1/search", h.handleSearch)
	mux.HandleFunc("GET /v1/summary/national", h.handleSummaryNational)
	mux.HandleFunc("GET /v1/summary/province/{province}", h.handleSummaryProvince)
	mux.HandleFunc("GET /v1/closest", h.handleClosest)
	mux.HandleFunc("GET /v1/parties/{party}/extremes", h.handleExtremes)
	mux.HandleFunc("GET /v1/health", h.handleHealth)
	if eps.Ask != nil {
		mux.HandleFunc("POST /v1/ask", h.handleAsk)
	}

	return cors(mux)
}

type handler struct {
	eps Endpoints
	eng *election.Engine
}

func (h *handler) handleListRidings(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, h.eps.ListRidings, nil)
}

func (h *handler) handleGetRiding(w http.ResponseWriter, r *http.Request) {
	code, ok := ridingCode(w, r)
	if !ok {
		return
	}
	h.respond(w, r, h.eps.GetRiding, &ridingReq{Code: code})
}

func (h *handler) handlePartyVotes(w http.ResponseWriter, r *http.Request) {
	code, ok := ridingCode(w, r)
	if !ok {
		return
	}
	h.respond(w, r, h.eps.PartyVotes, &partyVotesReq{
		Code:  code,
		Party: r.URL.Query().Get("party"),
	})
}

func (h *handler) handleWinner(w http.ResponseWriter, r *http.Request) {
	code, ok := ridingCode(w, r)
	if !ok {
		return
	}
	h.respond(w, r, h.eps.Winner, &ridingReq{Code: code})
}

func (h *handler) handleProvinceRidings(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, h.eps.ProvinceRidings, &provinceReq{Province: r.PathValue("province")})
}

func (h *handler) handleSearch(w http.ResponseWriter, r *http.Request) {
	term := r.URL.Query().Get("q")
	if term == "" {
		writeError(w, http.StatusBadRequest, "missing query parameter q")
		return
	}
	h.respond(w, r, h.eps.Search, &searchReq{Term: term})
}

func (h *handler) handleSummaryNational(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, h.eps.SummarizeNational, nil)
}

func (h *handler) handleSummaryProvince(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, h.eps.SummarizeProvince, &provinceReq{Province: r.PathValue("province")})
}

func (h *handler) handleClosest(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	h.respond(w, r, h.eps.ClosestRaces, &closestReq{
		Limit: limit,
		Party: r.URL.Query().Get("party"),
	})
}

func (h *handler) handleExtremes(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	h.respond(w, r, h.eps.PartyExtremes, &extremesReq{
		Party: r.PathValue("party"),
		Limit: limit,
	})
}

type askBody struct {
	Question string `json:"question"`
}

func (h *handler) handleAsk(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 16*1024)
	var body askBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Question == "" {
		writeError(w, http.StatusBadRequest, "body must be JSON with a question field")
		return
	}
	resp, err := h.eps.Ask(kit.WithTransport(r.Context(), "http"), &askReq{Question: body.Question})
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"answer": resp})
}

type healthResponse struct {
	Status    string `json:"status"`
	Ridings   int    `json:"ridings"`
	Provinces int    `json:"provinces"`
	VoteRows  int    `json:"vote_rows"`
}

func (h *handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	idx := h.eng.Index()
	writeJSON(w, http.StatusOK, healthResponse{
		Status:    "ok",
		Ridings:   idx.DistrictCount(),
		Provinces: idx.RegionCount(),
		VoteRows:  len(idx.VoteRows()),
	})
}

// --- helpers ---

func (h *handler) respond(w http.ResponseWriter, r *http.Request, ep kit.Endpoint, req any) {
	resp, err := ep(kit.WithTransport(r.Context(), "http"), req)
	if err != nil {
		if nf, ok := election.AsNotFound(err); ok {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": nf.Detail, "kind": nf.Kind})
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func ridingCode(w http.ResponseWriter, r *http.Request) (int, bool) {
	code, err := strconv.Atoi(r.PathValue("code"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "riding code must be an integer")
		return 0, false
	}
	return code, true
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

// cors is a simple CORS middleware for browser-based clients.
func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
