package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"
)

type generateRequest struct {
	System string `json:"system"`
	Prompt string `json:"prompt"`
}

func main() {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	mux.HandleFunc("/v1/generate", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}

		var req generateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		voice := "neutral"
		switch {
		case strings.Contains(req.System, "warm"):
			voice = "warm"
		case strings.Contains(req.System, "clinical"):
			voice = "clinical"
		case strings.Contains(req.System, "reflective"):
			voice = "reflective"
		}

		writeJSON(w, map[string]string{
			"text": fmt.Sprintf(
				"(%s mock) Your biometric data tells a consistent story this period. %s",
				voice, firstSentence(req.Prompt)),
		})
	})

	logger := log.New(log.Writer(), "generator-mock ", log.LstdFlags|log.Lmicroseconds)
	srv := &http.Server{
		Addr:    ":9100",
		Handler: logRequests(logger, mux),
	}

	logger.Println("listening on :9100")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("server error: %v", err)
	}
}

func firstSentence(prompt string) string {
	if i := strings.IndexByte(prompt, '.'); i >= 0 {
		return prompt[:i+1]
	}
	return prompt
}

func writeJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("encode error: %v", err)
	}
}

func logRequests(logger *log.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rw, r)
		logger.Printf("%s %s %d %s", r.Method, r.URL.Path, rw.status, time.Since(start))
	})
}

type responseWriter struct {
	http.ResponseWriter
	status int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}
