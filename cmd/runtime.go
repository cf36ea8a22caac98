package cmd

import (
	"fmt"
	"time"

	"github.com/nhle/mailnest/internal/account"
	"github.com/nhle/mailnest/internal/admin"
	"github.com/nhle/mailnest/internal/api"
	"github.com/nhle/mailnest/internal/credential"
	"github.com/nhle/mailnest/internal/logging"
	"github.com/nhle/mailnest/internal/model"
	"github.com/nhle/mailnest/internal/monitor"
	"github.com/nhle/mailnest/internal/store"
)

// openSessions opens the session store. Tests replace it with an
// in-memory keyring.
var openSessions = func() (account.SessionStore, error) {
	return credential.Open(model.ConfigDir())
}

// runtime holds the services shared by every command.
type runtime struct {
	log      *logging.Logger
	client   *api.Client
	store    *store.SQLiteStore
	monitor  *monitor.Monitor
	accounts *account.Service
	admin    *admin.Service
	loggedIn bool
}

// newRuntime wires the backend client, the session, the run journal and
// the services on top of them.
func newRuntime(cfg *model.AppConfig) (*runtime, error) {
	log, err := logging.New(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("setting up logging: %w", err)
	}

	client, err := api.NewClient(cfg.Server.BaseURL,
		api.WithTimeout(time.Duration(cfg.Server.TimeoutSec)*time.Second),
	)
	if err != nil {
		_ = log.Close()
		return nil, err
	}

	rt := &runtime{log: log, client: client}

	sessions, err := openSessions()
	if err != nil {
		// The session then only lives as long as the process.
		log.Warn().Err(err).Msg("session store unavailable")
		sessions = nil
	}
	rt.accounts = account.New(client, sessions, log.Logger)
	rt.loggedIn, err = rt.accounts.Restore()
	if err != nil {
		log.Warn().Err(err).Msg("restoring session")
	}

	opts := []monitor.Option{
		monitor.WithLogger(log.Logger),
		monitor.WithClassifier(model.NewClassifier(cfg.Monitor.Markers)),
	}
	if cfg.Store.Path != "" {
		s, err := store.NewSQLiteStore(cfg.Store.Path)
		if err != nil {
			log.Warn().Err(err).Str("path", cfg.Store.Path).Msg("run journal unavailable")
		} else {
			rt.store = s
			opts = append(opts, monitor.WithRecorder(s))
		}
	}

	rt.monitor = monitor.New(client, opts...)
	rt.admin = admin.New(client, log.Logger)
	return rt, nil
}

// Close releases the run journal and the log file.
func (rt *runtime) Close() {
	if rt.store != nil {
		if err := rt.store.Close(); err != nil {
			rt.log.Warn().Err(err).Msg("closing run journal")
		}
	}
	_ = rt.log.Close()
}

// journal returns the run journal as an interface, nil when it is not
// open.
func (rt *runtime) journal() store.Store {
	if rt.store == nil {
		return nil
	}
	return rt.store
}
