package monitor

import (
	"fmt"
	"net/http"

	"github.com/tailscale/tailsql/server/tailsql"
	"tailscale.com/tsweb"

	"github.com/evcam/ekalibr-go/internal/event/storage/sqlite"
)

// AttachDebugRoutes mounts a live SQL browser over the calibration-run
// store's database at /debug/tailsql/, grounded on the teacher's
// internal/db/db.go AttachAdminRoutes (tsweb.Debugger + tailsql.NewServer +
// SetDB).
func AttachDebugRoutes(mux *http.ServeMux, db *sqlite.DB) error {
	debug := tsweb.Debugger(mux)

	tsql, err := tailsql.NewServer(tailsql.Options{
		RoutePrefix: "/debug/tailsql/",
	})
	if err != nil {
		return fmt.Errorf("create tailsql server: %w", err)
	}
	tsql.SetDB("sqlite://calibration.db", db.DB, &tailsql.DBOptions{
		Label: "Calibration run store",
	})

	debug.Handle("tailsql/", "SQL live debugging", tsql.NewMux())
	return nil
}
