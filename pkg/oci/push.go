// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package oci

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	ociv1 "github.com/opencontainers/image-spec/specs-go/v1"
	oras "oras.land/oras-go/v2"
	"oras.land/oras-go/v2/content/file"
	ocilayout "oras.land/oras-go/v2/content/oci"
	"oras.land/oras-go/v2/registry/remote"
	"oras.land/oras-go/v2/registry/remote/auth"
	"oras.land/oras-go/v2/registry/remote/credentials"

	cnserrors "github.com/cloudherder/cloudherder/pkg/errors"
)

const (
	// ArtifactType is the media type of dashboard bundle artifacts.
	ArtifactType = "application/vnd.cloudherder.dashboard.bundle"

	// LayerName is the directory the bundle unpacks into on pull.
	LayerName = "bundle"
)

// PackageOptions configures Package.
type PackageOptions struct {
	// SourceDir is the bundle directory.
	SourceDir string
	// OutputDir receives the OCI image layout.
	OutputDir string
	// Reference names the artifact; its tag is required.
	Reference *Reference
	// Annotations are added to the manifest.
	Annotations map[string]string
	// ReproducibleTimestamp fixes the created annotation.
	ReproducibleTimestamp string
}

// PackageResult describes a packaged artifact.
type PackageResult struct {
	Digest    string
	Reference string
	StorePath string
}

// PushOptions configures PushFromStore.
type PushOptions struct {
	Reference *Reference
	// PlainHTTP uses HTTP instead of HTTPS.
	PlainHTTP bool
	// InsecureTLS skips certificate verification.
	InsecureTLS bool
}

// PushResult describes a pushed artifact.
type PushResult struct {
	Digest    string
	Reference string
}

func checkReference(ref *Reference) error {
	if ref == nil || !ref.IsOCI {
		return cnserrors.New(cnserrors.ErrCodeInvalidRequest, "OCI reference is required")
	}
	if ref.Tag == "" {
		return cnserrors.New(cnserrors.ErrCodeInvalidRequest, "tag is required for OCI packaging")
	}
	return ValidateRegistryReference(ref.Registry, ref.Repository)
}

// Package writes SourceDir as a single-layer artifact into an OCI image
// layout under OutputDir.
func Package(ctx context.Context, opts PackageOptions) (*PackageResult, error) {
	if err := checkReference(opts.Reference); err != nil {
		return nil, err
	}
	if opts.OutputDir == "" {
		return nil, cnserrors.New(cnserrors.ErrCodeInvalidRequest, "output directory is required for OCI packaging")
	}

	src, err := filepath.Abs(opts.SourceDir)
	if err != nil {
		return nil, cnserrors.Wrap(cnserrors.ErrCodeInternal, "failed to resolve source directory", err)
	}
	if info, statErr := os.Stat(src); statErr != nil || !info.IsDir() {
		return nil, cnserrors.NewWithContext(cnserrors.ErrCodeNotFound, "source directory does not exist",
			map[string]any{"dir": opts.SourceDir})
	}

	storePath := filepath.Join(opts.OutputDir, "oci-layout")
	store, err := ocilayout.New(storePath)
	if err != nil {
		return nil, cnserrors.Wrap(cnserrors.ErrCodeInternal, "failed to create OCI layout", err)
	}

	fs, err := file.New(src)
	if err != nil {
		return nil, cnserrors.Wrap(cnserrors.ErrCodeInternal, "failed to create file store", err)
	}
	defer func() { _ = fs.Close() }()
	fs.TarReproducible = true

	layer, err := fs.Add(ctx, LayerName, ociv1.MediaTypeImageLayerGzip, src)
	if err != nil {
		return nil, cnserrors.Wrap(cnserrors.ErrCodeInternal, "failed to add bundle to store", err)
	}

	annotations := make(map[string]string, len(opts.Annotations)+1)
	for k, v := range opts.Annotations {
		annotations[k] = v
	}
	if opts.ReproducibleTimestamp != "" {
		annotations[ociv1.AnnotationCreated] = opts.ReproducibleTimestamp
	}

	manifest, err := oras.PackManifest(ctx, fs, oras.PackManifestVersion1_1, ArtifactType, oras.PackManifestOptions{
		Layers:              []ociv1.Descriptor{layer},
		ManifestAnnotations: annotations,
	})
	if err != nil {
		return nil, cnserrors.Wrap(cnserrors.ErrCodeInternal, "failed to pack manifest", err)
	}

	tag := opts.Reference.Tag
	if err := fs.Tag(ctx, manifest, tag); err != nil {
		return nil, cnserrors.Wrap(cnserrors.ErrCodeInternal, "failed to tag manifest", err)
	}

	desc, err := oras.Copy(ctx, fs, tag, store, tag, oras.DefaultCopyOptions)
	if err != nil {
		return nil, cnserrors.Wrap(cnserrors.ErrCodeInternal, "failed to copy artifact to OCI layout", err)
	}

	slog.Debug("bundle packaged", "reference", opts.Reference.ImageReference(), "digest", desc.Digest.String())

	return &PackageResult{
		Digest:    desc.Digest.String(),
		Reference: opts.Reference.ImageReference(),
		StorePath: storePath,
	}, nil
}

// PushFromStore copies the tagged artifact in the OCI layout at storePath
// to its registry.
func PushFromStore(ctx context.Context, storePath string, opts PushOptions) (*PushResult, error) {
	if err := checkReference(opts.Reference); err != nil {
		return nil, err
	}

	store, err := ocilayout.New(storePath)
	if err != nil {
		return nil, cnserrors.Wrap(cnserrors.ErrCodeInternal, "failed to open OCI layout", err)
	}

	ref := opts.Reference
	repo, err := remote.NewRepository(fmt.Sprintf("%s/%s", stripProtocol(ref.Registry), ref.Repository))
	if err != nil {
		return nil, cnserrors.Wrap(cnserrors.ErrCodeInvalidRequest, "failed to initialize remote repository", err)
	}
	repo.PlainHTTP = opts.PlainHTTP
	repo.Client = createAuthClient(opts.PlainHTTP, opts.InsecureTLS)

	desc, err := oras.Copy(ctx, store, ref.Tag, repo, ref.Tag, oras.DefaultCopyOptions)
	if err != nil {
		return nil, cnserrors.Wrap(cnserrors.ErrCodeUnavailable, "failed to push artifact to registry", err)
	}

	return &PushResult{
		Digest:    desc.Digest.String(),
		Reference: ref.ImageReference(),
	}, nil
}

// OutputConfig configures PackageAndPush.
type OutputConfig struct {
	SourceDir   string
	OutputDir   string
	Reference   *Reference
	Version     string
	PlainHTTP   bool
	InsecureTLS bool
	// Annotations replace the default manifest annotations when set.
	Annotations map[string]string
}

// PackageAndPush packages cfg.SourceDir and pushes it to cfg.Reference.
func PackageAndPush(ctx context.Context, cfg OutputConfig) (*PushResult, error) {
	annotations := cfg.Annotations
	if annotations == nil {
		annotations = DefaultAnnotations(cfg.Version)
	}

	pkg, err := Package(ctx, PackageOptions{
		SourceDir:   cfg.SourceDir,
		OutputDir:   cfg.OutputDir,
		Reference:   cfg.Reference,
		Annotations: annotations,
	})
	if err != nil {
		return nil, err
	}

	slog.Info("pushing bundle",
		"registry", cfg.Reference.Registry,
		"repository", cfg.Reference.Repository,
		"tag", cfg.Reference.Tag)

	res, err := PushFromStore(ctx, pkg.StorePath, PushOptions{
		Reference:   cfg.Reference,
		PlainHTTP:   cfg.PlainHTTP,
		InsecureTLS: cfg.InsecureTLS,
	})
	if err != nil {
		return nil, err
	}

	slog.Info("bundle pushed", "reference", res.Reference, "digest", res.Digest)
	return res, nil
}

// DefaultAnnotations returns the manifest annotations applied when none
// are configured.
func DefaultAnnotations(version string) map[string]string {
	a := map[string]string{
		ociv1.AnnotationTitle:  "herder dashboard bundle",
		ociv1.AnnotationSource: "https://github.com/cloudherder/cloudherder",
	}
	if version != "" {
		a[ociv1.AnnotationVersion] = version
	}
	return a
}

func createAuthClient(plainHTTP, insecureTLS bool) *auth.Client {
	credStore, err := credentials.NewStoreFromDocker(credentials.StoreOptions{})
	if err != nil {
		slog.Debug("docker credentials unavailable", "error", err)
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if !plainHTTP && insecureTLS {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // opt-in for private registries
	}

	c := &auth.Client{
		Client: &http.Client{Transport: transport},
		Cache:  auth.NewCache(),
	}
	if credStore != nil {
		c.Credential = credentials.Credential(credStore)
	}
	return c
}
