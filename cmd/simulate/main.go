package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/rs/zerolog/log"

	"github.com/hackgods/clinic-scheduling/internal/clinic"
	"github.com/hackgods/clinic-scheduling/internal/config"
	"github.com/hackgods/clinic-scheduling/internal/observability"
)

type SimConfig struct {
	APIBaseURL   string
	Duration     time.Duration
	Workers      int
	Patients     int
	Commands     int
	Seed         uint64
	BookingRatio float64
	NoiseRatio   float64
	EmitScript   bool
}

type Simulator struct {
	config   SimConfig
	today    clinic.Date
	patients []patient
	pool     bookingPool
	client   *http.Client
	metrics  Metrics
}

func main() {
	baseCfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load base config")
	}
	observability.InitLogger("clinic-simulate", baseCfg.Env, baseCfg.LogLevel)

	cfg := loadConfig(baseCfg)
	if err := validateConfig(cfg); err != nil {
		log.Fatal().Err(err).Msg("invalid config")
	}

	today := clinic.DateOf(time.Now())
	patients := newPatients(gofakeit.New(cfg.Seed), cfg.Patients)

	if cfg.EmitScript {
		gen := newScriptGenerator(cfg.Seed, today, patients, cfg.BookingRatio, cfg.NoiseRatio)
		for _, line := range gen.Script(cfg.Commands) {
			fmt.Println(line)
		}
		return
	}

	log.Info().
		Str("api", cfg.APIBaseURL).
		Dur("duration", cfg.Duration).
		Int("workers", cfg.Workers).
		Int("patients", len(patients)).
		Float64("booking_ratio", cfg.BookingRatio).
		Msg("simulator starting")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sim := &Simulator{
		config:   cfg,
		today:    today,
		patients: patients,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
	sim.Run(ctx)
	sim.PrintReport(os.Stdout)
}

func loadConfig(base config.Config) SimConfig {
	return SimConfig{
		APIBaseURL:   getEnv("SIM_API_BASE_URL", "http://localhost:"+base.HTTPPort),
		Duration:     getDuration("SIM_DURATION", 30*time.Second),
		Workers:      getInt("SIM_WORKERS", 10),
		Patients:     getInt("SIM_PATIENTS", 200),
		Commands:     getInt("SIM_COMMANDS", 100),
		Seed:         uint64(getInt("SIM_SEED", int(time.Now().UnixNano()&0x7fffffff))),
		BookingRatio: getFloat("SIM_BOOKING_RATIO", 0.6),
		NoiseRatio:   getFloat("SIM_NOISE_RATIO", 0.1),
		EmitScript:   getEnv("SIM_EMIT_SCRIPT", "") == "1",
	}
}

func validateConfig(cfg SimConfig) error {
	if cfg.Workers <= 0 {
		return fmt.Errorf("SIM_WORKERS must be > 0")
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("SIM_DURATION must be > 0")
	}
	if cfg.Patients <= 0 {
		return fmt.Errorf("SIM_PATIENTS must be > 0")
	}
	if cfg.BookingRatio < 0 || cfg.BookingRatio > 1 {
		return fmt.Errorf("SIM_BOOKING_RATIO must be within [0, 1]")
	}
	return nil
}

func (s *Simulator) Run(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, s.config.Duration)
	defer cancel()

	var wg sync.WaitGroup
	for i := range s.config.Workers {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			s.worker(ctx, workerID)
		}(i)
	}

	wg.Wait()
	log.Info().Msg("simulation complete")
}

func (s *Simulator) worker(ctx context.Context, workerID int) {
	seed := s.config.Seed + uint64(workerID) + 1
	f := gofakeit.New(seed)
	rng := rand.New(rand.NewSource(int64(seed)))

	for ctx.Err() == nil {
		switch pickOp(f, s.config.BookingRatio) {
		case opBook:
			s.doBooking(ctx, f)
		case opReschedule:
			s.doReschedule(ctx, f, rng)
		case opCancel:
			s.doCancel(ctx, rng)
		case opList:
			s.doList(ctx, []string{"appointment", "patient", "location"}[f.Number(0, 2)])
		case opBill:
			s.doBilling(ctx)
		}
	}
}

func (s *Simulator) doBooking(ctx context.Context, f *gofakeit.Faker) {
	p := s.patients[f.Number(0, len(s.patients)-1)]
	b := booking{
		Date:    bookingDate(f, s.today).String(),
		Slot:    randomSlot(f),
		Patient: p,
	}

	status, latency, err := s.post(ctx, "/appointments", map[string]string{
		"date":       b.Date,
		"slot":       b.Slot,
		"first_name": p.FirstName,
		"last_name":  p.LastName,
		"dob":        p.DOB,
		"provider":   randomProvider(f),
	})
	success := err == nil && status == http.StatusCreated
	if success {
		s.pool.add(b)
	}
	s.metrics.Booking.Record(latency, success, err == nil && isRejection(status))
}

func (s *Simulator) doReschedule(ctx context.Context, f *gofakeit.Faker, rng *rand.Rand) {
	b, ok := s.pool.take(rng)
	if !ok {
		return
	}
	newSlot := randomSlot(f)

	body := lookupBody(b)
	body["new_slot"] = newSlot
	status, latency, err := s.post(ctx, "/appointments/reschedule", body)

	success := err == nil && status == http.StatusOK
	if success {
		b.Slot = newSlot
	}
	// A rejected move leaves the booking where it was.
	s.pool.add(b)
	s.metrics.Reschedule.Record(latency, success, err == nil && isRejection(status))
}

func (s *Simulator) doCancel(ctx context.Context, rng *rand.Rand) {
	b, ok := s.pool.take(rng)
	if !ok {
		return
	}

	status, latency, err := s.post(ctx, "/appointments/cancel", lookupBody(b))
	success := err == nil && status == http.StatusOK
	if !success && ctx.Err() != nil {
		s.pool.add(b)
		return
	}
	s.metrics.Cancel.Record(latency, success, err == nil && isRejection(status))
}

func (s *Simulator) doList(ctx context.Context, order string) {
	status, latency, err := s.get(ctx, "/appointments?order="+order)
	s.metrics.List.Record(latency, err == nil && status == http.StatusOK, false)
}

func (s *Simulator) doBilling(ctx context.Context) {
	status, latency, err := s.get(ctx, "/billing")
	s.metrics.Billing.Record(latency, err == nil && status == http.StatusOK, false)
}

func (s *Simulator) post(ctx context.Context, path string, body map[string]string) (int, time.Duration, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return 0, 0, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.config.APIBaseURL+path, bytes.NewReader(payload))
	if err != nil {
		return 0, 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	return s.do(req)
}

func (s *Simulator) get(ctx context.Context, path string) (int, time.Duration, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.config.APIBaseURL+path, nil)
	if err != nil {
		return 0, 0, err
	}
	return s.do(req)
}

func (s *Simulator) do(req *http.Request) (int, time.Duration, error) {
	start := time.Now()
	resp, err := s.client.Do(req)
	if err != nil {
		return 0, time.Since(start), err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode, time.Since(start), nil
}

func lookupBody(b booking) map[string]string {
	return map[string]string{
		"date":       b.Date,
		"slot":       b.Slot,
		"first_name": b.Patient.FirstName,
		"last_name":  b.Patient.LastName,
		"dob":        b.Patient.DOB,
	}
}

func isRejection(status int) bool {
	switch status {
	case http.StatusConflict, http.StatusNotFound, http.StatusUnprocessableEntity:
		return true
	}
	return false
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func getInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}
