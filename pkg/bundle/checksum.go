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

package bundle

import (
	"bufio"
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	cnserrors "github.com/cloudherder/cloudherder/pkg/errors"
)

// ChecksumFileName is the name of the checksum file in a bundle directory.
const ChecksumFileName = "checksums.txt"

// GenerateChecksums writes checksums.txt into dir with one
// "<sha256>  <relative path>" line per file.
func GenerateChecksums(ctx context.Context, dir string, files []string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context cancelled: %w", err)
	}

	lines := make([]string, 0, len(files))
	for _, file := range files {
		sum, err := fileChecksum(file)
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(dir, file)
		if err != nil {
			rel = file
		}
		lines = append(lines, fmt.Sprintf("%s  %s", sum, filepath.ToSlash(rel)))
	}

	path := ChecksumFilePath(dir)
	content := strings.Join(lines, "\n") + "\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		return cnserrors.Wrap(cnserrors.ErrCodeInternal, "failed to write checksums", err)
	}

	slog.Debug("checksums generated", "file_count", len(lines), "path", path)
	return nil
}

// VerifyChecksums recomputes every checksum listed in dir/checksums.txt.
func VerifyChecksums(ctx context.Context, dir string) error {
	data, err := os.ReadFile(ChecksumFilePath(dir))
	if err != nil {
		if os.IsNotExist(err) {
			return cnserrors.NewWithContext(cnserrors.ErrCodeNotFound, "bundle has no checksums",
				map[string]any{"dir": dir})
		}
		return cnserrors.Wrap(cnserrors.ErrCodeInternal, "failed to read checksums", err)
	}

	scanner := bufio.NewScanner(bytes.NewReader(data))
	for line := 1; scanner.Scan(); line++ {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("context cancelled: %w", err)
		}
		text := scanner.Text()
		if text == "" {
			continue
		}
		want, rel, ok := strings.Cut(text, "  ")
		if !ok {
			return cnserrors.NewWithContext(cnserrors.ErrCodeInvalidRequest, "malformed checksum line",
				map[string]any{"line": line})
		}
		got, err := fileChecksum(filepath.Join(dir, filepath.FromSlash(rel)))
		if err != nil {
			return err
		}
		if got != want {
			return cnserrors.NewWithContext(cnserrors.ErrCodeInvalidRequest, "checksum mismatch",
				map[string]any{"file": rel, "expected": want, "actual": got})
		}
	}
	return scanner.Err()
}

// ChecksumFilePath returns the path of checksums.txt in dir.
func ChecksumFilePath(dir string) string {
	return filepath.Join(dir, ChecksumFileName)
}

func fileChecksum(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", cnserrors.WrapWithContext(cnserrors.ErrCodeInternal, "failed to read file for checksum", err,
			map[string]any{"path": path})
	}
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:]), nil
}
