package main

import (
	"context"
	"net"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/mager/melodiary/config"
	"github.com/mager/melodiary/database"
	"github.com/mager/melodiary/emotion"
	"github.com/mager/melodiary/firestore"
	"github.com/mager/melodiary/handler/analyze"
	"github.com/mager/melodiary/handler/auth"
	"github.com/mager/melodiary/handler/diary"
	"github.com/mager/melodiary/handler/health"
	"github.com/mager/melodiary/handler/photos"
	"github.com/mager/melodiary/handler/playlist"
	"github.com/mager/melodiary/handler/profile"
	"github.com/mager/melodiary/handler/recommend"
	statsHandler "github.com/mager/melodiary/handler/stats"
	"github.com/mager/melodiary/logger"
	"github.com/mager/melodiary/music"
	"github.com/mager/melodiary/musicbrainz"
	"github.com/mager/melodiary/openai"
	"github.com/mager/melodiary/session"
	"github.com/mager/melodiary/spotify"
	"github.com/mager/melodiary/storage"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Route is an http.Handler that knows the mux pattern
// under which it will be registered.
type Route interface {
	http.Handler

	// Pattern reports the path at which this is registered.
	Pattern() string

	// Methods reports the HTTP methods the route answers.
	Methods() []string
}

//	@title			Melodiary
//	@version		1.0
//	@description	Mood journal API: diary analysis and song recommendations

//	@license.name	Apache 2.0
//	@license.url	http://www.apache.org/licenses/LICENSE-2.0.html

// @host		localhost:8080
// @BasePath	/
func main() {
	fx.New(
		fx.Provide(
			fx.Annotate(
				NewHTTPServer,
				fx.ParamTags(``, ``, ``, ``, `group:"routes"`),
			),
			config.Options,
			config.ProvideServices,
			logger.Options,

			openai.Options,
			emotion.Options,
			fx.Annotate(spotify.Options, fx.As(new(music.TrackSearcher))),
			music.Options,
			musicbrainz.Options,
			musicbrainz.ProvideGenreEnricher,

			firestore.Options,
			storage.Options,
			database.Options,
			database.ProvideProfileStore,
			session.Options,

			AsRoute(health.NewHealthHandler),
			AsRoute(auth.NewSessionHandler),
			AsRoute(analyze.NewAnalyzeHandler),
			AsRoute(recommend.NewRecommendHandler),
			AsRoute(recommend.NewFeedbackHandler),
			AsRoute(diary.NewCreateHandler),
			AsRoute(diary.NewListHandler),
			AsRoute(diary.NewGetHandler),
			AsRoute(diary.NewDeleteHandler),
			AsRoute(playlist.NewListHandler),
			AsRoute(playlist.NewCreateHandler),
			AsRoute(playlist.NewAddSongHandler),
			AsRoute(playlist.NewDeleteHandler),
			AsRoute(profile.NewProfileHandler),
			AsRoute(profile.NewUpdateProfileHandler),
			AsRoute(statsHandler.NewStatsHandler),
			AsRoute(photos.NewUploadHandler),
		),
		fx.Invoke(func(*http.Server) {}),
	).Run()
}

func NewHTTPServer(
	lc fx.Lifecycle,
	log *zap.SugaredLogger,
	cfg config.Config,
	issuer *session.Issuer,
	routes []Route,
) *http.Server {
	router := mux.NewRouter()
	for _, route := range routes {
		router.Handle(route.Pattern(), route).Methods(route.Methods()...)
	}
	router.Use(jsonMiddleware, issuer.Middleware)

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: router}
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return err
			}
			log.Infow("Starting HTTP server", "addr", srv.Addr, "routes", len(routes))
			go srv.Serve(ln)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})

	return srv
}

// AsRoute annotates the given constructor to state that
// it provides a route to the "routes" group.
func AsRoute(f any) any {
	return fx.Annotate(
		f,
		fx.As(new(Route)),
		fx.ResultTags(`group:"routes"`),
	)
}

func jsonMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}
