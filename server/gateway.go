package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"evocpi/internal"
	"evocpi/internal/config"
	"evocpi/metrics"
	"evocpi/metrics/counters"
	"evocpi/ocpi/authorize"
	"evocpi/ocpi/commands"
	"evocpi/ocpi/cpo"
	"evocpi/ocpi/listener"
	"evocpi/ocpi/relay"
	"evocpi/router"
	"evocpi/utility"
	"github.com/redis/go-redis/v9"
)

const shutdownTimeout = 10 * time.Second

// registry is everything the gateway reads from its store
type registry interface {
	internal.Registry
	internal.CredentialStore
	internal.PartnerDirectory
}

// Gateway wires the OCPI CPO endpoints to their collaborators
type Gateway struct {
	conf       *config.Config
	logger     *internal.Logger
	database   *internal.MongoDB
	redis      redis.UniversalClient
	dispatcher *router.Dispatcher
	commands   *commands.Dispatcher
	server     *Server
	metrics    *http.Server
	listener   *listener.Listener
}

// NewGateway builds the gateway on the in-memory registry unless MongoDB is enabled
func NewGateway(conf *config.Config) (*Gateway, error) {
	if err := checkConfig(conf); err != nil {
		return nil, err
	}
	logService, err := internal.NewLogger(conf.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("logger setup failed: %w", err)
	}
	logService.SetDebugMode(conf.Debug())

	g := &Gateway{
		conf:   conf,
		logger: logService,
	}

	var store registry
	database, err := internal.NewMongoClient(conf)
	if err != nil {
		return nil, fmt.Errorf("mongodb setup failed: %w", err)
	}
	if database != nil {
		log.Println("mongodb is configured and enabled")
		g.database = database
		logService.SetDatabase(database)
		store = database
	} else {
		log.Println("database is disabled, records are kept in memory")
		store = internal.NewMemoryRegistry()
	}

	if conf.Redis.Enabled {
		g.redis = redis.NewClient(&redis.Options{
			Addr:     conf.Redis.Addr,
			Password: conf.Redis.Password,
		})
		log.Println("redis is configured and enabled")
	}

	if err = g.wire(store); err != nil {
		return nil, err
	}
	return g, nil
}

func checkConfig(conf *config.Config) error {
	if conf.Listen.TLS && (conf.Listen.CertFile == "" || conf.Listen.KeyFile == "") {
		return utility.Err("tls is enabled without certificate or key file")
	}
	if conf.Redis.Enabled && conf.Redis.ResultsChannel == "" {
		return utility.Errf("redis is enabled without a results channel for %s", conf.Redis.Addr)
	}
	return nil
}

func (g *Gateway) wire(store registry) error {
	conf := g.conf

	// identities: signed partner tokens first, then the credential store
	var resolver authorize.Resolver = authorize.NewRegistryResolver(store)
	if g.redis != nil {
		resolver = authorize.NewCachedResolver(resolver, g.redis, conf.Auth.CacheTTL)
	}
	if conf.Auth.JwtSecret != "" {
		resolver = authorize.Chain{authorize.NewJWTResolver(conf.Auth.JwtSecret), resolver}
	}

	options := []commands.Option{
		commands.WithObserver(func(kind commands.Kind, result commands.ResponseType, fallback bool) {
			counters.CountCommand(string(kind), string(result), fallback)
		}),
	}
	if conf.Commands.EnforceTimeout {
		options = append(options, commands.WithDeadline(commands.DefaultTimeout))
	}
	g.commands = commands.NewDispatcher(g.logger, options...)
	if conf.Commands.BackendUrl != "" {
		forwarder := commands.NewForwarder(conf.Commands.BackendUrl, conf.Commands.BackendToken)
		if err := forwarder.RegisterAll(g.commands); err != nil {
			return fmt.Errorf("command forwarder setup failed: %w", err)
		}
		log.Println("commands are forwarded to " + conf.Commands.BackendUrl)
	}

	publicUrl := conf.Ocpi.PublicUrl
	if publicUrl == "" {
		publicUrl = fmt.Sprintf("http://127.0.0.1:%s", conf.Listen.Port)
	}

	g.dispatcher = router.NewDispatcher(conf.Ocpi.BasePath, g.logger)
	g.dispatcher.Use(requestIds, resolveIdentity(resolver))
	g.dispatcher.UseAfter(echoIds, observe(g.logger))

	module := cpo.New(store, g.commands, cpo.Options{
		PublicUrl:     publicUrl,
		BasePath:      g.dispatcher.BasePath(),
		OpenLocations: conf.Ocpi.OpenData.Locations,
		OpenTariffs:   conf.Ocpi.OpenData.Tariffs,
	}, g.logger)
	if err := module.Register(g.dispatcher); err != nil {
		return fmt.Errorf("route setup failed: %w", err)
	}

	handler, err := g.dispatcher.Handler()
	if err != nil {
		return fmt.Errorf("transport setup failed: %w", err)
	}
	g.server = NewServer(conf, handler, g.logger)
	g.metrics = metrics.NewServer(conf)

	if g.redis != nil {
		results := relay.New(store, relay.NewClients(conf.Commands.RelayClients), g.logger)
		g.listener = listener.New(g.redis, conf.Redis.ResultsChannel, countingSender{results}, g.logger)
	}
	return nil
}

// Commands exposes the command dispatcher so that in-process backends can register handlers
func (g *Gateway) Commands() *commands.Dispatcher {
	return g.commands
}

// Handler is the transport handler serving the OCPI endpoints
func (g *Gateway) Handler() http.Handler {
	return g.server.httpServer.Handler
}

// Start serves until ctx is done or the listener fails, then shuts everything down
func (g *Gateway) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	failed := make(chan error, 3)
	go func() {
		if err := g.server.Start(); err != nil {
			failed <- fmt.Errorf("ocpi server: %w", err)
		}
	}()
	if g.metrics != nil {
		go func() {
			g.logger.Debug("starting metrics server on " + g.metrics.Addr)
			if err := g.metrics.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				failed <- fmt.Errorf("metrics server: %w", err)
			}
		}()
	}
	if g.listener != nil {
		go func() {
			if err := g.listener.Listen(ctx); err != nil {
				// results are not relayed without the listener, the endpoints keep working
				g.logger.Error("command result listener stopped", err)
			}
		}()
	}

	var err error
	select {
	case <-ctx.Done():
	case err = <-failed:
	}
	g.shutdown()
	return err
}

func (g *Gateway) shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := g.server.Shutdown(ctx); err != nil {
		g.logger.Error("server shutdown", err)
	}
	if g.metrics != nil {
		_ = g.metrics.Shutdown(ctx)
	}
	if g.redis != nil {
		_ = g.redis.Close()
	}
	if g.database != nil {
		if err := g.database.Close(ctx); err != nil {
			g.logger.Error("mongodb disconnect", err)
		}
	}
	g.logger.Sync()
}

type countingSender struct {
	next listener.Sender
}

func (s countingSender) SendResult(ctx context.Context, partyId, responseUrl string, result *commands.Result) error {
	err := s.next.SendResult(ctx, partyId, responseUrl, result)
	counters.CountResult(partyId, err == nil)
	return err
}
