package cli

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/mgpai22/subdub/internal/document"
	"github.com/mgpai22/subdub/internal/dubbing"
	"github.com/mgpai22/subdub/internal/editor"
	"github.com/mgpai22/subdub/internal/synth"
	"github.com/spf13/cobra"
)

// workspace bundles what a command opened so it can be closed in one place
type workspace struct {
	store   document.Store
	cache   *synth.RedisCache
	session *editor.Session
}

func (w *workspace) Close() {
	if w.cache != nil {
		_ = w.cache.Close()
	}
	if w.store != nil {
		_ = w.store.Close()
	}
}

func openStore(ctx context.Context, cmd *cobra.Command) (document.Store, error) {
	storeFlags(cmd)
	if err := cfg.CheckPostgres(); err != nil {
		return nil, err
	}
	store, err := document.Open(ctx, cfg.Store.Driver, cfg.Store.Dir, cfg.Store.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open document store: %w", err)
	}
	return store, nil
}

// newEngine builds the dubbing engine: HTTP synthesis, behind the Redis
// cache when one is configured.
func newEngine(ctx context.Context) (*dubbing.Engine, *synth.RedisCache, error) {
	httpSynth, err := synth.NewHTTPSynthesizer(synth.HTTPOptions{
		Endpoint:     cfg.Speech.Endpoint,
		Key:          cfg.Speech.Key,
		OutputFormat: cfg.Speech.OutputFormat,
		Timeout:      cfg.Speech.Timeout(),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create synthesizer: %w (set speech.endpoint and SUBDUB_SPEECH_KEY)", err)
	}

	var s synth.Synthesizer = httpSynth
	var cache *synth.RedisCache
	if cfg.Cache.Addr != "" {
		cache, err = synth.NewRedisCache(ctx, synth.RedisOptions{
			Addr:     cfg.Cache.Addr,
			Password: cfg.Cache.Password,
			DB:       cfg.Cache.DB,
			TTL:      cfg.Cache.TTL(),
		})
		if err != nil {
			logger.Warnw("Synthesis cache unavailable, continuing without it", "addr", cfg.Cache.Addr, "error", err)
		} else {
			s = synth.NewCached(httpSynth, cache, logger)
		}
	}

	return dubbing.NewEngine(s, logger), cache, nil
}

// openWorkspace loads the document named by idArg, with a dubbing engine
// when withEngine is set.
func openWorkspace(ctx context.Context, cmd *cobra.Command, idArg string, withEngine bool) (*workspace, error) {
	id, err := uuid.Parse(idArg)
	if err != nil {
		return nil, fmt.Errorf("invalid document id %q: %w", idArg, err)
	}

	w := &workspace{}
	w.store, err = openStore(ctx, cmd)
	if err != nil {
		return nil, err
	}

	opts := editor.Options{Store: w.store, Logger: logger, Voice: cfg.Speech.Voice}
	if withEngine {
		opts.Engine, w.cache, err = newEngine(ctx)
		if err != nil {
			w.Close()
			return nil, err
		}
	}

	w.session, err = editor.Open(ctx, id, opts)
	if err != nil {
		w.Close()
		return nil, fmt.Errorf("failed to open document: %w", err)
	}
	return w, nil
}

// saveIfDirty persists the session when a command changed it.
func saveIfDirty(ctx context.Context, s *editor.Session) error {
	if !s.Dirty() {
		return nil
	}
	return s.Save(ctx)
}
