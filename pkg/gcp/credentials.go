// Package gcp authenticates against Google Cloud and builds the clients a run
// needs. Every failure here is fatal for the run.
package gcp

import (
	"context"
	"encoding/json"
	"io/ioutil"

	"github.com/pingcap/errors"
	"golang.org/x/oauth2/google"

	"bulkloader/pkg/config"
	berrors "bulkloader/pkg/errors"
)

// CloudPlatformScope is the only scope requested for the service account.
const CloudPlatformScope = "https://www.googleapis.com/auth/cloud-platform"

const serviceAccountType = "service_account"

// LoadCredentials reads a service account key file. The project is taken
// from the key unless cfg.Project overrides it. With cfg.VerifyCredentials a
// token is minted up front.
func LoadCredentials(ctx context.Context, path string, cfg *config.BigQuery) (*google.Credentials, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, berrors.ErrAuth.GenWithStackByArgs(path, err.Error())
	}

	var key struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &key); err != nil {
		return nil, berrors.ErrAuth.GenWithStackByArgs(path, "malformed credentials file: "+err.Error())
	}
	if key.Type != serviceAccountType {
		return nil, berrors.ErrAuth.GenWithStackByArgs(path, "credentials type is "+quoteOrEmpty(key.Type)+", want \"service_account\"")
	}

	creds, err := google.CredentialsFromJSON(ctx, data, CloudPlatformScope)
	if err != nil {
		return nil, berrors.ErrAuth.GenWithStackByArgs(path, err.Error())
	}
	if cfg.Project != "" {
		creds.ProjectID = cfg.Project
	}
	if creds.ProjectID == "" {
		return nil, berrors.ErrAuth.GenWithStackByArgs(path, "no project_id in credentials and no [bigquery] project configured")
	}

	if cfg.VerifyCredentials {
		if _, err := creds.TokenSource.Token(); err != nil {
			return nil, berrors.ErrAuth.GenWithStackByArgs(path, errors.Annotate(err, "cannot mint an access token").Error())
		}
	}
	return creds, nil
}

func quoteOrEmpty(s string) string {
	if s == "" {
		return "empty"
	}
	return `"` + s + `"`
}
