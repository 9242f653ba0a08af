package app

import (
	"context"
	"crypto/tls"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/rs/cors"
	"golang.org/x/crypto/acme/autocert"

	"github.com/commstack/portal/clusters"
	"github.com/commstack/portal/config"
	"github.com/commstack/portal/mlog"
	"github.com/commstack/portal/model"
	"github.com/commstack/portal/services/httpservice"
	"github.com/commstack/portal/services/l1cache"
	"github.com/commstack/portal/store"
	"github.com/commstack/portal/store/cachelayer"
	"github.com/commstack/portal/store/searchlayer"
	"github.com/commstack/portal/store/sqlstore"
	"github.com/commstack/portal/utils"
)

type Server struct {
	sqlStore store.Store
	Store    store.Store

	RootRouter *mux.Router
	Router     *mux.Router

	Server      *http.Server
	ListenAddr  *net.TCPAddr
	RateLimiter *RateLimiter

	didFinishListen chan struct{}

	goroutineCount      int32
	goroutineExitSignal chan struct{}

	newSqlStore func() store.Store
	newStore    func() store.Store

	sessionCache l1cache.Cache

	CacheProvider l1cache.Provider

	configStore config.Store

	Log *mlog.Logger

	EmailBatching *EmailBatchingJob

	HTTPService httpservice.HTTPService

	Cluster   clusters.ClusterInterface
	clusterId string
}

func NewServer(options ...Option) (*Server, error) {
	rootRouter := mux.NewRouter()

	s := &Server{
		goroutineExitSignal: make(chan struct{}, 1),
		RootRouter:          rootRouter,
		clusterId:           model.NewId(),
	}

	for _, option := range options {
		// tests set newStore, the batch job server sets EmailBatching
		if err := option(s); err != nil {
			return nil, errors.Wrap(err, "failed to apply option")
		}
	}

	if s.configStore == nil {
		configStore, err := config.NewFileStore("config.json", true)
		if err != nil {
			return nil, err
		}

		s.configStore = configStore
	}

	s.CacheProvider = l1cache.NewProvider()

	s.sessionCache = s.CacheProvider.NewCache(&l1cache.CacheOptions{
		Size: model.SESSION_CACHE_SIZE,
	})

	if s.newSqlStore == nil {
		s.newSqlStore = func() store.Store {
			return sqlstore.NewSqlSupplier(s.Config().SqlSettings)
		}
	}
	s.sqlStore = s.newSqlStore()

	if s.newStore == nil {
		s.newStore = func() store.Store {
			newLayer := searchlayer.NewSearchLayer(
				cachelayer.NewCacheLayer(
					s.sqlStore,
					s.Config(),
				),
				s.Config(),
			)

			newLayer.SetupIndexes()

			return newLayer
		}
	}
	s.Store = s.newStore()

	s.HTTPService = httpservice.MakeHTTPService(s)

	s.Cluster = clusters.MakeCluster(s)

	subpath, err := utils.GetSubpathFromConfig(s.Config())
	if err != nil {
		return nil, err
	}
	s.Router = s.RootRouter.PathPrefix(subpath).Subrouter()

	if s.EmailBatching != nil {
		if err := s.EmailBatching.scheduleJobs(); err != nil {
			return nil, err
		}
		s.EmailBatching.startJobs()
	}

	s.FakeApp().registerAllClusterMessageHandlers()
	// subscribe to redis pub/sub before serving
	s.Cluster.Start(s.clusterId)

	return s, nil
}

var corsAllowedMethods = []string{
	"POST",
	"GET",
	"OPTIONS",
	"PUT",
	"PATCH",
	"DELETE",
}

func (s *Server) Start() error {
	var handler http.Handler = s.RootRouter

	if allowedOrigins := *s.Config().ServiceSettings.AllowCorsFrom; allowedOrigins != "" {
		exposedCorsHeaders := *s.Config().ServiceSettings.CorsExposedHeaders
		allowCredentials := *s.Config().ServiceSettings.CorsAllowCredentials
		debug := *s.Config().ServiceSettings.CorsDebug
		daySeconds := 86400
		corsWrapper := cors.New(cors.Options{
			AllowedOrigins:   strings.Fields(allowedOrigins),
			AllowedMethods:   corsAllowedMethods,
			AllowedHeaders:   []string{"*"},
			ExposedHeaders:   strings.Fields(exposedCorsHeaders),
			MaxAge:           daySeconds,
			AllowCredentials: allowCredentials,
			Debug:            debug,
		})

		handler = corsWrapper.Handler(handler)
	}

	if *s.Config().RateLimitSettings.Enable {
		mlog.Info("RateLimiter is enabled")

		rateLimiter, err := NewRateLimiter(&s.Config().RateLimitSettings, s.Config().ServiceSettings.TrustedProxyIPHeader)
		if err != nil {
			return err
		}

		s.RateLimiter = rateLimiter
		handler = rateLimiter.RateLimitHandler(handler)
	}

	s.Server = &http.Server{
		Handler:      handler,
		ReadTimeout:  time.Duration(*s.Config().ServiceSettings.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(*s.Config().ServiceSettings.WriteTimeout) * time.Second,
	}

	addr := *s.Config().ServiceSettings.ListenAddress
	if addr == "" {
		if *s.Config().ServiceSettings.ConnectionSecurity == model.CONN_SECURITY_TLS {
			addr = ":https"
		} else {
			addr = ":http"
		}
	}
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	s.ListenAddr = listener.Addr().(*net.TCPAddr)

	useTLS := *s.Config().ServiceSettings.ConnectionSecurity == model.CONN_SECURITY_TLS
	useLetsEncrypt := *s.Config().ServiceSettings.UseLetsEncrypt

	if useTLS && useLetsEncrypt {
		m := &autocert.Manager{
			Prompt: autocert.AcceptTOS,
			Cache:  autocert.DirCache(*s.Config().ServiceSettings.LetsEncryptCertificateCacheFile),
		}

		s.Server.TLSConfig = &tls.Config{
			GetCertificate: m.GetCertificate,
			NextProtos:     []string{"h2", "http/1.1"},
			MinVersion:     tls.VersionTLS12,
		}

		if *s.Config().ServiceSettings.Forward80To443 {
			// the ACME http-01 challenge has to be answered on port 80;
			// everything else is redirected to https
			go func() {
				if err := http.ListenAndServe(":http", m.HTTPHandler(nil)); err != nil && err != http.ErrServerClosed {
					mlog.Error("Unable to start the challenge server on port 80", mlog.Err(err))
				}
			}()
		}
	} else if useTLS && *s.Config().ServiceSettings.Forward80To443 {
		go func() {
			redirectListener, err := net.Listen("tcp", ":http")
			if err != nil {
				mlog.Error("Unable to setup forwarding to https", mlog.Err(err))
				return
			}
			defer redirectListener.Close()

			http.Serve(redirectListener, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				url := *r.URL
				url.Scheme = "https"
				url.Host = r.Host
				http.Redirect(w, r, url.String(), http.StatusFound)
			}))
		}()
	}

	s.didFinishListen = make(chan struct{})
	go func() {
		var err error
		if useTLS {
			if useLetsEncrypt {
				err = s.Server.ServeTLS(listener, "", "")
			} else {
				err = s.Server.ServeTLS(listener, *s.Config().ServiceSettings.TLSCertFile, *s.Config().ServiceSettings.TLSKeyFile)
			}
		} else {
			err = s.Server.Serve(listener)
		}

		if err != nil && err != http.ErrServerClosed {
			mlog.Critical("Error starting server", mlog.Err(err))
			time.Sleep(time.Second)
		}

		close(s.didFinishListen)
	}()

	return nil
}

func (s *Server) AppOptions() []AppOption {
	return []AppOption{
		ServerConnector(s),
	}
}

const TIME_TO_WAIT_FOR_CONNECTIONS_TO_CLOSE_ON_SERVER_SHUTDOWN = time.Second

func (s *Server) StopHTTPServer() {
	if s.Server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), TIME_TO_WAIT_FOR_CONNECTIONS_TO_CLOSE_ON_SERVER_SHUTDOWN)
		defer cancel()
		didShutdown := false
		for s.didFinishListen != nil && !didShutdown {
			if err := s.Server.Shutdown(ctx); err != nil {
				mlog.Warn("Unable to shutdown server", mlog.Err(err))
			}
			timer := time.NewTimer(time.Millisecond * 50)
			select {
			case <-s.didFinishListen:
				didShutdown = true
			case <-timer.C:
			}
			timer.Stop()
		}
		s.Server.Close()
		s.Server = nil
	}
}

func (s *Server) Shutdown() error {
	mlog.Info("Stopping Server...")

	s.StopHTTPServer()

	if s.EmailBatching != nil {
		s.EmailBatching.StopJobs()
	}

	s.WaitForGoroutines()

	if s.Store != nil {
		s.Store.Close()
	}

	if s.configStore != nil {
		if err := s.configStore.Close(); err != nil {
			mlog.Warn("Unable to close config store", mlog.Err(err))
		}
	}

	mlog.Info("Server stopped")
	return nil
}

func (s *Server) Go(f func()) {
	atomic.AddInt32(&s.goroutineCount, 1)

	go func() {
		f()

		atomic.AddInt32(&s.goroutineCount, -1)
		select {
		case s.goroutineExitSignal <- struct{}{}:
		default:
		}
	}()
}

func (s *Server) WaitForGoroutines() {
	for atomic.LoadInt32(&s.goroutineCount) != 0 {
		<-s.goroutineExitSignal
	}
}

func (s *Server) FakeApp() *App {
	a := New(
		ServerConnector(s),
	)

	return a
}

func (a *App) OriginChecker() func(*http.Request) bool {
	if allowed := *a.Config().ServiceSettings.AllowCorsFrom; allowed != "" {
		if allowed != "*" {
			siteURL, err := url.Parse(*a.Config().ServiceSettings.SiteURL)
			if err == nil {
				siteURL.Path = ""
				allowed += " " + siteURL.String()
			}
		}

		return utils.OriginChecker(allowed)
	}

	return nil
}
