package advisor

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// Server serves purchase-limit predictions over HTTP.
type Server struct {
	metrics Metrics
	logger  zerolog.Logger
	mux     *http.ServeMux
}

// Option configures a Server.
type Option func(*Server) error

// WithHistory supplies the price history the server derives its metrics
// from.
func WithHistory(history []Candle) Option {
	return func(s *Server) error {
		m, err := ComputeMetrics(history)
		if err != nil {
			return err
		}
		s.metrics = m
		return nil
	}
}

// WithLogger sets the request logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Server) error {
		s.logger = logger
		return nil
	}
}

// NewServer creates a server. Without WithHistory it falls back to a
// deterministic synthetic history.
func NewServer(opts ...Option) (*Server, error) {
	s := &Server{logger: zerolog.Nop()}

	fallback, err := ComputeMetrics(SyntheticHistory(365, 1))
	if err != nil {
		return nil, err
	}
	s.metrics = fallback

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	s.mux = http.NewServeMux()
	s.mux.HandleFunc("/predict", s.handlePredict)
	s.mux.HandleFunc("/healthz", s.handleHealthz)
	return s, nil
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// Response is the prediction payload.
type Response struct {
	BTCUSD      float64 `json:"btc_usd"`
	USDINR      float64 `json:"usd_inr"`
	HardLimit   float64 `json:"hard_limit"`
	RiskProfile string  `json:"risk_profile"`
	Volatility  float64 `json:"volatility"`
	Sentiment   float64 `json:"sentiment"`
	Trend       float64 `json:"trend"`
}

func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	start := time.Now()

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	limit, err := HardLimit(req, s.metrics)
	if err != nil {
		status := http.StatusBadRequest
		if !errors.Is(err, ErrUnknownProfile) && !errors.Is(err, ErrInvalidRequest) {
			status = http.StatusInternalServerError
		}
		http.Error(w, err.Error(), status)
		return
	}

	resp := Response{
		BTCUSD:      s.metrics.BTCUSD,
		USDINR:      s.metrics.USDINR,
		HardLimit:   limit,
		RiskProfile: req.RiskProfile,
		Volatility:  s.metrics.BTCVolatility,
		Sentiment:   s.metrics.Sentiment,
		Trend:       s.metrics.Trend,
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.logger.Error().Err(err).Msg("encode response")
		return
	}

	s.logger.Info().
		Str("profile", req.RiskProfile).
		Float64("balance", req.Balance).
		Float64("hard_limit", limit).
		Dur("elapsed", time.Since(start)).
		Msg("predict")
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
