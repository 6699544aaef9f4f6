package server

import (
	"encoding/json"
	nethttp "net/http"
	"strconv"
	"time"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/middleware/recovery"
	"github.com/go-kratos/kratos/v2/transport/http"

	"github.com/iWorld-y/brd_agent/app/display/internal/conf"
	"github.com/iWorld-y/brd_agent/app/display/internal/service"
)

// NewHTTPServer 注册所有 JSON 接口
func NewHTTPServer(c *conf.Server, s *service.BRDService, logger log.Logger) *http.Server {
	var opts = []http.ServerOption{
		http.Middleware(
			recovery.Recovery(),
		),
	}
	if c.Http.Addr != "" {
		opts = append(opts, http.Address(c.Http.Addr))
	}
	if c.Http.Timeout != "" {
		if d, err := time.ParseDuration(c.Http.Timeout); err == nil {
			opts = append(opts, http.Timeout(d))
		}
	}

	srv := http.NewServer(opts...)
	helper := log.NewHelper(logger)

	srv.HandleFunc("/api/health", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		writeJSON(w, nethttp.StatusOK, map[string]string{"status": "ok"})
	})

	srv.HandleFunc("/api/process-text", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		var req service.ProcessTextReq
		if !decodeBody(w, r, &req) {
			return
		}
		result, err := s.ProcessText(r.Context(), &req)
		respond(w, helper, result, err)
	})

	srv.HandleFunc("/api/ingest", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		var req service.IngestReq
		if !decodeBody(w, r, &req) {
			return
		}
		result, err := s.Ingest(r.Context(), &req)
		respond(w, helper, result, err)
	})

	srv.HandleFunc("/api/process", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		result, err := s.Process(r.Context(), r.URL.Query().Get("id"))
		respond(w, helper, result, err)
	})

	srv.HandleFunc("/api/brd", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		version, _ := strconv.Atoi(r.URL.Query().Get("version"))
		result, err := s.Get(r.Context(), r.URL.Query().Get("id"), version)
		respond(w, helper, result, err)
	})

	srv.HandleFunc("/api/brds", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		result, err := s.List(r.Context(), limit)
		respond(w, helper, result, err)
	})

	srv.HandleFunc("/api/search", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		result, err := s.Search(r.Context(), r.URL.Query().Get("q"), limit)
		respond(w, helper, result, err)
	})

	srv.HandleFunc("/api/refine", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		var req service.RefineReq
		if !decodeBody(w, r, &req) {
			return
		}
		result, err := s.Refine(r.Context(), &req)
		respond(w, helper, result, err)
	})

	srv.HandleFunc("/api/simulate", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		var req service.SimulateReq
		if !decodeBody(w, r, &req) {
			return
		}
		result, err := s.Simulate(r.Context(), &req)
		respond(w, helper, result, err)
	})

	srv.HandleFunc("/api/stats", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		result, err := s.Stats(r.Context())
		respond(w, helper, result, err)
	})

	return srv
}

func decodeBody(w nethttp.ResponseWriter, r *nethttp.Request, dst any) bool {
	if r.Method != nethttp.MethodPost {
		writeJSON(w, nethttp.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return false
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSON(w, nethttp.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return false
	}
	return true
}

func respond(w nethttp.ResponseWriter, helper *log.Helper, result any, err error) {
	if err != nil {
		helper.Warnf("request failed: %v", err)
		writeJSON(w, nethttp.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, nethttp.StatusOK, result)
}

func writeJSON(w nethttp.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}
