package main

import (
	auth "TPSuite/internal/auth"
	calc "TPSuite/internal/calc"
	batch "TPSuite/internal/calc/batch"
	report "TPSuite/internal/calc/report"
	session "TPSuite/internal/calc/session"
	config "TPSuite/internal/config"
	db "TPSuite/internal/db"
	dosimetry "TPSuite/internal/dosimetry"
	history "TPSuite/internal/history"
	profile "TPSuite/internal/profile"
	repo "TPSuite/internal/repo"
	tables "TPSuite/internal/tables"
	"context"
	"database/sql"
	"fmt"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"log"
	"net/http"
	"os"

	"github.com/gorilla/mux"
)

var wg sync.WaitGroup

func CORS(mux *mux.Router) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		mux.ServeHTTP(w, r)
	})
}

func newEngine(cfg config.Config) (*dosimetry.Engine, error) {
	data := dosimetry.DefaultTables()
	if cfg.TablesFile != "" {
		t, err := dosimetry.LoadTablesFile(cfg.TablesFile)
		if err != nil {
			return nil, fmt.Errorf("reference tables: %w", err)
		}
		data = t
		log.Printf("reference tables loaded from %s", cfg.TablesFile)
	}
	machine := dosimetry.DefaultMachine()
	if cfg.DoseRate > 0 {
		machine.DoseRate = cfg.DoseRate
	}
	return dosimetry.NewEngine(data, dosimetry.WithMachine(machine)), nil
}

func HandleList(mux *mux.Router, cfg config.Config, conn *sql.DB, engine *dosimetry.Engine) {
	store := repo.NewSQLRepository(conn)
	calculators := calc.Calculators(engine)

	authEnv := &auth.Authenv{JWTkey: cfg.TokenKey, Repo: store}
	profileH := &profile.ProfileHandler{Repo: store}
	calcH := &calc.Handler{Calculators: calculators}
	batchH := &batch.Handler{Calculators: calculators}
	reportH := &report.Handler{Calculators: calculators}
	historyH := &history.Handler{Repo: store}
	tablesH := &tables.Handler{Engine: engine}
	sessionH := &session.Handler{
		Calculators: calculators,
		Registry:    session.NewRegistry(cfg.SessionTTL),
		Store:       store,
		SaveTimeout: cfg.SaveTimeout,
		Saves:       &wg,
	}

	limiter := auth.NewIPRateLimiter(5, 20)

	api := mux.PathPrefix("/api").Subrouter()
	api.Use(limiter.LimitMiddleware)

	api.HandleFunc("/login", authEnv.AuthHandler).Methods("POST")
	api.HandleFunc("/logout", authEnv.LogoutHandler).Methods("POST")

	secureApi := api.PathPrefix("/user").Subrouter()
	secureApi.Use(authEnv.AuthMiddleware)

	secureApi.HandleFunc("/profile", profileH.GetProfile).Methods("GET")
	secureApi.HandleFunc("/profile", profileH.UpdateProfile).Methods("PATCH", "PUT")

	secureApi.HandleFunc("/tools", calcH.List).Methods("GET")
	secureApi.HandleFunc("/tools/report/pdf", reportH.Generate).Methods("POST")
	secureApi.HandleFunc("/tools/{scenario}/calc", calcH.Calc).Methods("POST")
	secureApi.HandleFunc("/tools/{scenario}/batch", batchH.Calc).Methods("POST")
	secureApi.HandleFunc("/tools/{scenario}/import", batchH.Import).Methods("POST")

	secureApi.HandleFunc("/sessions", sessionH.Create).Methods("POST")
	secureApi.HandleFunc("/sessions/{id}", sessionH.Get).Methods("GET")
	secureApi.HandleFunc("/sessions/{id}", sessionH.Delete).Methods("DELETE")
	secureApi.HandleFunc("/sessions/{id}/fields", sessionH.SetFields).Methods("PUT")
	secureApi.HandleFunc("/sessions/{id}/calculate", sessionH.Calculate).Methods("POST")
	secureApi.HandleFunc("/sessions/{id}/clear", sessionH.Clear).Methods("POST")
	secureApi.HandleFunc("/sessions/{id}/save", sessionH.Save).Methods("POST")

	secureApi.HandleFunc("/tables/{name}", tablesH.Get).Methods("GET")
	secureApi.HandleFunc("/tables/{name}/chart", tablesH.Chart).Methods("GET")

	secureApi.HandleFunc("/history", historyH.List).Methods("GET")
	secureApi.HandleFunc("/history/export.csv", historyH.ExportCSV).Methods("GET")
	secureApi.HandleFunc("/history/export.xlsx", historyH.ExportXLSX).Methods("GET")

	adminApi := secureApi.PathPrefix("/admin").Subrouter()
	adminApi.Use(auth.AdminOnly)

	adminApi.HandleFunc("/history", historyH.DeleteAll).Methods("DELETE")
	adminApi.HandleFunc("/users", profileH.ListUsers).Methods("GET")
	adminApi.HandleFunc("/users", profileH.CreateUser).Methods("POST")
	adminApi.HandleFunc("/users/{id:[0-9]+}", profileH.UpdateUser).Methods("PUT")
	adminApi.HandleFunc("/users/{id:[0-9]+}", profileH.DeleteUser).Methods("DELETE")
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	engine, err := newEngine(cfg)
	if err != nil {
		log.Fatal(err)
	}

	conn, err := db.Open(ctx, cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer conn.Close()

	if err := auth.EnsureAdmin(ctx, repo.NewSQLRepository(conn), cfg.AdminUser, cfg.AdminPassword); err != nil {
		log.Fatalf("bootstrap administrator: %v", err)
	}

	mux := mux.NewRouter()
	log.Printf("Starting server on %s", cfg.HTTPAddr)
	HandleList(mux, cfg, conn, engine)
	handler := CORS(mux)

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		var err error
		if cfg.TLS() {
			err = server.ListenAndServeTLS(cfg.TLSCert, cfg.TLSKey)
		} else {
			err = server.ListenAndServe()
		}
		if err != nil && err != http.ErrServerClosed {
			log.Printf("Server error: %v", err)
			cancel()
		}
	}()

	<-ctx.Done()
	log.Println("Shutdown signal received, closing active connections")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	// Saves still in flight finish against the open database.
	wg.Wait()
	log.Println("Server stopped")
}
