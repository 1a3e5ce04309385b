package bootstrap

import (
	"context"
	"log/slog"

	"cloud.google.com/go/firestore"
	gcpkms "cloud.google.com/go/kms/apiv1"
	"firebase.google.com/go/v4/auth"

	plaidclient "github.com/alphafinance/backend/internal/client/plaid"
	vertexclient "github.com/alphafinance/backend/internal/client/vertex"
	"github.com/alphafinance/backend/internal/config"
	"github.com/alphafinance/backend/pkg/logger"
)

type Bootstrap struct {
	Log           *slog.Logger
	Firestore     *firestore.Client
	Firebase      *auth.Client
	KMS           *gcpkms.KeyManagementClient
	PlaidAdapter  *plaidclient.Adapter
	VertexAdapter *vertexclient.Adapter
}

func Run(cfg *config.Config) (*Bootstrap, error) {
	var err error
	applicationCtx := context.Background()
	bs := new(Bootstrap)

	bs.Log = logger.New(cfg.LogLevel, logger.NewCloudRunHandler)
	bs.Firestore, err = InitFirestore(applicationCtx, cfg.ProjectID)
	if err != nil {
		return bs, err
	}
	bs.Firebase, err = InitFirebase(applicationCtx)
	if err != nil {
		return bs, err
	}
	bs.KMS, err = InitKMS(applicationCtx)
	if err != nil {
		return bs, err
	}

	// The Plaid API secret normally lives in Secret Manager; the env var is
	// a local-development override.
	plaidSecret := cfg.PlaidSecret
	if plaidSecret == "" && cfg.PlaidSecretName != "" {
		plaidSecret, err = FetchSecret(applicationCtx, cfg.PlaidSecretName)
		if err != nil {
			return bs, err
		}
	}
	bs.PlaidAdapter = plaidclient.NewAdapter(cfg.PlaidClientID, plaidSecret, cfg.PlaidEnvironment)

	bs.VertexAdapter, err = vertexclient.NewAdapter(applicationCtx, bs.Log, cfg.ProjectID, cfg.Region, cfg.VertexModel)
	if err != nil {
		return bs, err
	}

	return bs, nil
}

func (bs *Bootstrap) Close() {
	if bs.VertexAdapter != nil {
		bs.VertexAdapter.Close()
	}
	if bs.KMS != nil {
		bs.KMS.Close()
	}
	if bs.Firestore != nil {
		bs.Firestore.Close()
	}
}
