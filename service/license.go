package service

import (
	"context"

	"github.com/ghprofile/profile-api/cache"
	"github.com/ghprofile/profile-api/model"
	"github.com/ghprofile/profile-api/source"
)

type LicenseResolver interface {
	Resolve(ctx context.Context, licenseURL string) (*model.LicenseRecord, error)
}

type licenseResolver struct {
	source source.Source
	cache  *cache.QueryCache
}

// NewLicenseResolver resolves license urls through the source, each url is fetched once
func NewLicenseResolver(src source.Source, queryCache *cache.QueryCache) LicenseResolver {
	return licenseResolver{
		source: src,
		cache:  queryCache,
	}
}

// Resolve returns nil without error for an empty url: the repository has no license
func (r licenseResolver) Resolve(ctx context.Context, licenseURL string) (*model.LicenseRecord, error) {
	if licenseURL == "" {
		return nil, nil
	}

	return cache.Fetch(ctx, r.cache, "license:"+licenseURL, func(ctx context.Context) (*model.LicenseRecord, error) {
		license, err := r.source.GetLicense(ctx, licenseURL)
		if err != nil {
			return nil, err
		}

		return &model.LicenseRecord{
			Name:        license.GetName(),
			SPDXID:      license.GetSPDXID(),
			URL:         license.GetURL(),
			HTMLURL:     license.GetHTMLURL(),
			Description: license.GetDescription(),
		}, nil
	})
}
