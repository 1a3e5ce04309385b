package main

import (
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"

	"github.com/alphafinance/backend/infra/cloudrun"
	"github.com/alphafinance/backend/infra/docker"
	"github.com/alphafinance/backend/infra/firestore"
	"github.com/alphafinance/backend/infra/identity"
	"github.com/alphafinance/backend/infra/kms"
	"github.com/alphafinance/backend/infra/provider"
	"github.com/alphafinance/backend/infra/secret"
	"github.com/alphafinance/backend/infra/vertex"
)

func main() {
	pulumi.Run(func(ctx *pulumi.Context) error {
		// set default provider with the correct project
		prov, err := provider.SetupDefaultProvider(ctx)
		if err != nil {
			return err
		}

		// enable identity service to allow using firebase
		_, err = identity.SetupIdentity(ctx)
		if err != nil {
			return err
		}

		// enable firestore and create a database for the project
		err = firestore.SetupFirestore(ctx, prov)
		if err != nil {
			return err
		}

		// KMS key ring + key for encrypting bank access tokens
		kmsSvc, err := kms.SetupKMS(ctx, prov)
		if err != nil {
			return err
		}
		keyID, err := kms.CreateKey(ctx, prov, "alpha-finance", "item-tokens")
		if err != nil {
			return err
		}

		// Vertex for the spending-insights endpoint
		err = vertex.SetupVertex(ctx, prov)
		if err != nil {
			return err
		}

		// Secret Manager for the Plaid API credentials
		secretSvc, err := secret.SetupSecretManager(ctx, prov)
		if err != nil {
			return err
		}

		// create docker repo
		repo, err := docker.CreateCloudrunRepo(ctx)
		if err != nil {
			return err
		}

		_, err = cloudrun.SetupCloudRun(ctx, prov, keyID, repo, kmsSvc, secretSvc)
		if err != nil {
			return err
		}

		return nil
	})
}
