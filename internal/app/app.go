package app

import (
	"context"
	"net/http"

	"library-lending-go/internal/cache"
	"library-lending-go/internal/config"
	"library-lending-go/internal/db"
	bookdomain "library-lending-go/internal/domain/book"
	lendingdomain "library-lending-go/internal/domain/lending"
	readerdomain "library-lending-go/internal/domain/reader"
	"library-lending-go/internal/notifier"
	"library-lending-go/internal/queue"
	bookrepo "library-lending-go/internal/repository/postgres/book"
	lendingrepo "library-lending-go/internal/repository/postgres/lending"
	readerrepo "library-lending-go/internal/repository/postgres/reader"
	"library-lending-go/internal/transport/httpserver"
	"library-lending-go/internal/transport/httpserver/handler"
	"library-lending-go/pkg/logger"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type App struct {
	cfg        config.Config
	log        logger.Logger
	httpServer *http.Server
	db         *gorm.DB
	redis      *redis.Client
	rabbit     *queue.Rabbit
	inprocess  *queue.InProcess
	lending    *lendingdomain.Service
}

func New(log logger.Logger) (*App, error) {
	cfg := config.Load(log)

	dbConn, err := db.NewPostgres(cfg.DB, log)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(dbConn); err != nil {
		return nil, err
	}

	redisClient := cache.NewClient(cfg.Redis, log)
	var listCache bookdomain.ListCache
	var catalogCache lendingdomain.CatalogCache
	if redisClient != nil {
		bookCache := cache.NewBookListCache(redisClient, log)
		listCache = bookCache
		catalogCache = bookCache
	}

	var sender lendingdomain.Sender
	if cfg.SMTP.Enabled {
		sender = notifier.NewSMTP(cfg.SMTP)
	} else {
		log.Info("app: smtp disabled, reminder delivery goes to the log")
		sender = notifier.NewLog(log)
	}

	var rabbit *queue.Rabbit
	var inprocess *queue.InProcess
	var reminderQueue lendingdomain.Queue
	if cfg.AMQP.Enabled {
		rabbit, err = queue.NewRabbit(cfg.AMQP)
		if err != nil {
			return nil, err
		}
		reminderQueue = rabbit
	} else {
		log.Info("app: amqp disabled, using in-process reminder scheduling")
		inprocess = queue.NewInProcess(log)
		reminderQueue = inprocess
	}

	books := bookdomain.NewService(bookrepo.NewPostgres(dbConn), listCache, cfg.Redis.ListTTL)
	readers := readerdomain.NewService(readerrepo.NewPostgres(dbConn))
	lending := lendingdomain.NewService(lendingrepo.NewPostgres(dbConn), reminderQueue, sender, catalogCache)

	if inprocess != nil {
		inprocess.SetDispatcher(lending)
	}

	handlers := handler.New(books, readers, lending, dbConn, log)
	router := httpserver.NewRouter(cfg, handlers)
	srv := httpserver.New(cfg, router)

	return &App{
		cfg:        cfg,
		log:        log,
		httpServer: srv,
		db:         dbConn,
		redis:      redisClient,
		rabbit:     rabbit,
		inprocess:  inprocess,
		lending:    lending,
	}, nil
}

// Start launches background work: the dispatch consumer when AMQP is on and
// the re-enqueue of reminders left pending across the last shutdown.
func (a *App) Start(ctx context.Context) {
	if a.rabbit != nil {
		go a.rabbit.StartConsumer(ctx, a.lending, a.log)
	}

	go func() {
		count, err := a.lending.ReschedulePending(ctx)
		if err != nil {
			a.log.InternalError("app: rescheduling pending reminders failed", err, "rescheduled", count)
			return
		}
		if count > 0 {
			a.log.Info("app: rescheduled pending reminders", "count", count)
		}
	}()
}

func (a *App) HTTPServer() *http.Server {
	return a.httpServer
}

func (a *App) Close() error {
	if a.rabbit != nil {
		_ = a.rabbit.Close()
	}
	if a.redis != nil {
		_ = a.redis.Close()
	}
	if a.db == nil {
		return nil
	}
	sqlDB, err := a.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
