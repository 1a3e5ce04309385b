package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/alphafinance/backend/internal/bootstrap"
	"github.com/alphafinance/backend/internal/config"
	"github.com/alphafinance/backend/internal/crypto"
	"github.com/alphafinance/backend/internal/handlers"
	"github.com/alphafinance/backend/internal/response"
	"github.com/alphafinance/backend/internal/router"
	"github.com/alphafinance/backend/internal/scheduler"
	"github.com/alphafinance/backend/internal/services"
	"github.com/alphafinance/backend/internal/store"
	"github.com/alphafinance/backend/pkg/logger"
)

func exitOnError(message string, err error, log *slog.Logger) {
	if err != nil {
		log.Error(message, "error", err)
		os.Exit(1)
	}
}

func main() {
	// bootstrap
	cfg := config.New()
	bs, err := bootstrap.Run(cfg)
	exitOnError("bootstrap failed", err, bs.Log)
	defer bs.Close()

	// helpers
	kmsHelper := crypto.NewKMS(bs.KMS, cfg.KMSKeyName)

	// stores
	ustore := store.NewUserStore(bs.Firestore)
	astore := store.NewAccountStore(bs.Firestore)
	tstore := store.NewTransactionStore(bs.Firestore)
	bstore := store.NewBudgetStore(bs.Firestore)
	alstore := store.NewAlertStore(bs.Firestore)
	cstore := store.NewCategoryStore(bs.Firestore)
	istore := store.NewItemStore(bs.Firestore, kmsHelper)

	// services
	userv := services.NewUserService(ustore)
	caserv := services.NewCategoryService(cstore)
	reserv := services.NewReconcileService(bs.PlaidAdapter, astore)
	inserv := services.NewIngestService(bs.PlaidAdapter, tstore, astore, caserv)
	alserv := services.NewAlertService(bstore, alstore, tstore)
	buserv := services.NewBudgetService(bstore, alstore, tstore)
	trserv := services.NewTransactionService(tstore, astore, caserv, alserv)
	anserv := services.NewAnalyticsService(tstore, astore)
	aiserv := services.NewInsightsService(bs.VertexAdapter, anserv, buserv)
	liserv := services.NewLinkService(bs.PlaidAdapter, istore)
	syserv := services.NewSyncService(istore, reserv, inserv, alserv)

	// response handler
	rh := response.New(bs.Log)

	// dependencies
	deps := new(handlers.Deps)
	deps.Log = bs.Log
	deps.ResponseHandler = rh
	deps.Firebase = bs.Firebase
	deps.UserSvc = userv
	deps.LinkSvc = liserv
	deps.SyncSvc = syserv
	deps.AccountSvc = reserv
	deps.TransactionSvc = trserv
	deps.BudgetSvc = buserv
	deps.AlertSvc = alserv
	deps.CategorySvc = caserv
	deps.AnalyticsSvc = anserv
	deps.InsightsSvc = aiserv

	// scheduled jobs
	sched := scheduler.New(bs.Log)
	err = sched.Register(scheduler.Job{
		Name: "sync-sweep",
		Spec: cfg.SyncSchedule,
		Run: func(ctx context.Context) {
			uids, err := ustore.ListUIDs(ctx)
			if err != nil {
				logger.FromContext(ctx).Error("sync sweep could not list users", "error", err)
				return
			}
			syserv.SyncAll(ctx, time.Now(), uids)
		},
	})
	exitOnError("scheduler setup failed", err, bs.Log)
	err = sched.Register(scheduler.Job{
		Name: "budget-rollforward",
		Spec: cfg.SyncSchedule,
		Run: func(ctx context.Context) {
			log := logger.FromContext(ctx)
			uids, err := ustore.ListUIDs(ctx)
			if err != nil {
				log.Error("roll-forward could not list users", "error", err)
				return
			}
			for _, uid := range uids {
				if _, err := buserv.RollForward(ctx, uid, time.Now()); err != nil {
					log.Warn("roll-forward failed", "uid", uid, "error", err)
				}
			}
		},
	})
	exitOnError("scheduler setup failed", err, bs.Log)
	sched.Start()
	defer sched.Stop()

	// router
	r := router.NewRouter(deps)
	bs.Log.Info("server starting", "port", cfg.Port)
	err = http.ListenAndServe(":"+cfg.Port, r)
	exitOnError("server start failed", err, bs.Log)
}
