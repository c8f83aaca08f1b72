// Command ekalibr reads event-camera batches from a PCAP capture or a live
// UDP feed, runs them through the SAE -> normal-flow -> circle-extractor ->
// grid-finder pipeline, and records every accepted circle and grid
// reconstruction in a SQLite run store. Grounded on the teacher's
// cmd/lidar/lidar.go (flag-configured UDP listener + HTTP status/debug
// server, context cancellation on SIGINT/SIGTERM, graceful shutdown).
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/evcam/ekalibr-go/internal/event"
	"github.com/evcam/ekalibr-go/internal/event/circle"
	"github.com/evcam/ekalibr-go/internal/event/grid"
	"github.com/evcam/ekalibr-go/internal/event/ingest"
	"github.com/evcam/ekalibr-go/internal/event/monitor"
	"github.com/evcam/ekalibr-go/internal/event/storage/sqlite"
	"github.com/evcam/ekalibr-go/internal/event/viewer"
	"github.com/evcam/ekalibr-go/internal/eventconfig"
)

var (
	listen     = flag.String("listen", ":8082", "HTTP listen address for status, dashboard, and debug routes")
	pcapFile   = flag.String("pcap", "", "replay a .pcap capture instead of listening live")
	udpAddr    = flag.String("udp-addr", ":7777", "UDP address to listen on when -pcap is unset")
	udpPort    = flag.Int("udp-port", 7777, "UDP port filtered from the pcap capture when -pcap is set")
	dbFile     = flag.String("db", "ekalibr.db", "path to the SQLite calibration-run store")
	width      = flag.Int("width", 640, "sensor width in pixels")
	height     = flag.Int("height", 480, "sensor height in pixels")
	tau        = flag.Int64("tau-micros", 50000, "SAE decay constant, in microseconds")
	rows       = flag.Int("rows", 4, "calibration target rows")
	cols       = flag.Int("cols", 4, "calibration target cols")
	squareSize = flag.Float64("square-size", 10, "calibration target circle spacing, in pixels")
	asymmetric = flag.Bool("asymmetric", false, "treat the target as an asymmetric circle grid")
	source     = flag.String("source", "live", "source")
	viewAddr   = flag.String("viewer-addr", "", "if set, stream overlay frames to this address via gRPC")
)

func main() {
	flag.Parse()

	cfg := eventconfig.Default(*width, *height, float64(*tau)/1e6, eventconfig.SymmetricGrid, *rows, *cols, *squareSize)
	if *asymmetric {
		cfg = cfg.WithPattern(eventconfig.AsymmetricGrid)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	src, err := openSource()
	if err != nil {
		log.Fatalf("open event source: %v", err)
	}
	defer src.Close()

	db, err := sqlite.Open(*dbFile)
	if err != nil {
		log.Fatalf("open calibration store %s: %v", *dbFile, err)
	}
	defer db.Close()
	store := sqlite.NewRunStore(db)

	run := sqlite.CalibrationRun{
		RunID:   uuid.NewString(),
		Started: time.Now().UTC(),
		Source:  *source,
		Rows:    *rows,
		Cols:    *cols,
		Kind:    cfg.Pattern.String(),
	}
	if err := store.CreateRun(run); err != nil {
		log.Fatalf("create calibration run: %v", err)
	}
	log.Printf("calibration run %s started (source=%s rows=%d cols=%d kind=%s)",
		run.RunID, run.Source, run.Rows, run.Cols, run.Kind)

	dashboard := viewer.NewEChartsSink()
	extraSink, stopSink := newSink()
	defer stopSink()
	sink := viewer.NewMultiSink(dashboard, extraSink)

	extractor, err := circle.NewExtractor(cfg.Circle, sink)
	if err != nil {
		log.Fatalf("new circle extractor: %v", err)
	}
	finder, err := grid.NewFinder(cfg.Grid)
	if err != nil {
		log.Fatalf("new grid finder: %v", err)
	}
	flowEstimator, err := event.NewFlowEstimator(cfg.Flow)
	if err != nil {
		log.Fatalf("new flow estimator: %v", err)
	}
	gridKind := grid.Symmetric
	if cfg.Pattern == eventconfig.AsymmetricGrid {
		gridKind = grid.Asymmetric
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := runPipeline(ctx, cfg, src, flowEstimator, extractor, finder, gridKind, store, run.RunID); err != nil && err != context.Canceled {
			log.Printf("pipeline stopped: %v", err)
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		serveHTTP(ctx, db, store, dashboard, run.RunID)
	}()

	wg.Wait()
	log.Printf("calibration run %s complete", run.RunID)
}

func openSource() (ingest.Source, error) {
	if *pcapFile != "" {
		return ingest.NewPCAPSource(*pcapFile, *udpPort)
	}
	return ingest.NewUDPSource(*udpAddr)
}

func newSink() (viewer.Sink, func()) {
	if *viewAddr == "" {
		return viewer.NullSink{}, func() {}
	}
	grpcSink := viewer.NewGRPCSink()
	go func() {
		if err := grpcSink.Serve(*viewAddr); err != nil {
			log.Printf("viewer gRPC sink stopped: %v", err)
		}
	}()
	return grpcSink, grpcSink.Stop
}

// runPipeline reads batches from src, accumulates them onto an SAE, and
// runs the circle/grid extraction pipeline once per batch, persisting
// every accepted circle and grid reconstruction.
func runPipeline(
	ctx context.Context,
	cfg eventconfig.Config,
	src ingest.Source,
	flowEstimator *event.FlowEstimator,
	extractor *circle.Extractor,
	finder *grid.Finder,
	gridKind grid.Kind,
	store *sqlite.RunStore,
	runID string,
) error {
	surface := event.NewSurface(cfg.Width, cfg.Height)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		batch, err := src.Next()
		if err != nil {
			return fmt.Errorf("read batch: %w", err)
		}
		surface.GrabArray(batch)
		pack := flowEstimator.Estimate(surface, batch.Events)

		tEval, circles := extractor.ExtractCircles(pack)
		centers := make([]event.Vec2, len(circles))
		for i, c := range circles {
			centers[i] = c.Center
			if err := store.InsertCircleDetection(sqlite.CircleDetection{
				RunID: runID, TEval: tEval, Center: c.Center, Radius: c.Radius,
			}); err != nil {
				log.Printf("persist circle detection: %v", err)
			}
		}

		if len(centers) == 0 {
			continue
		}
		if result, ok := finder.Find(centers, cfg.Rows, cfg.Cols, gridKind); ok {
			if err := store.InsertGridDetection(sqlite.GridDetection{
				RunID: runID, TEval: tEval, Rows: result.Rows, Cols: result.Cols, Centers: result.Centers,
			}); err != nil {
				log.Printf("persist grid detection: %v", err)
			}
		}
	}
}

// serveHTTP serves a health endpoint, the dashboard, and the live SQL
// browser; every route is mounted from the start of the run.
func serveHTTP(ctx context.Context, db *sqlite.DB, store *sqlite.RunStore, dashboard *viewer.EChartsSink, runID string) {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"status":"ok","run_id":%q}`, runID)
	})
	mux.HandleFunc("/dashboard", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := dashboard.RenderHTML(w); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})
	mux.HandleFunc("/plots/radius.png", func(w http.ResponseWriter, r *http.Request) {
		dets, err := store.ListCircleDetections(runID)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		servePlotPNG(w, dets, monitor.PlotCircleRadiusTrace)
	})
	mux.HandleFunc("/plots/grid_rate.png", func(w http.ResponseWriter, r *http.Request) {
		dets, err := store.ListGridDetections(runID)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		servePlotPNG(w, dets, monitor.PlotGridDetectionRate)
	})
	if err := monitor.AttachDebugRoutes(mux, db); err != nil {
		log.Printf("attach debug routes: %v", err)
	}

	server := &http.Server{Addr: *listen, Handler: mux}
	go func() {
		log.Printf("HTTP server listening on %s", *listen)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("HTTP server error: %v", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}
}

// servePlotPNG renders dets to a temporary PNG via plotFn and streams it to
// w, since the gonum/plot renderers in package monitor write to a file path
// rather than an io.Writer.
func servePlotPNG[T any](w http.ResponseWriter, dets []T, plotFn func([]T, string) error) {
	tmp, err := os.CreateTemp("", "ekalibr-plot-*.png")
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	path := tmp.Name()
	tmp.Close()
	defer os.Remove(path)

	if err := plotFn(dets, path); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	f, err := os.Open(path)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	defer f.Close()
	w.Header().Set("Content-Type", "image/png")
	io.Copy(w, f)
}
