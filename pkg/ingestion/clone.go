// Copyright 2025 KrakLabs
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.
//
// For commercial licensing, contact: licensing@kraklabs.com
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package ingestion

import (
	"log/slog"
	"net/url"
	"os"
	"regexp"
	"strings"

	git "github.com/go-git/go-git/v5"

	"github.com/autowiki/autowiki/internal/errors"
)

var (
	validGitURLPattern = regexp.MustCompile(`^(https?://|git@|ssh://|file://)[\w.\-@:/%]+$`)
	dangerousCharsPattern = regexp.MustCompile("[;&|$`\\n\\r\\\\]")
)

// validateGitURL rejects obviously malformed or dangerous repo URLs
// before they reach go-git, surfacing a clear InputError instead of
// whatever low-level transport error go-git would otherwise produce.
func validateGitURL(repoURL string) error {
	if repoURL == "" {
		return errors.NewInputError("repo_url is required", "empty string", "provide a git URL")
	}
	if dangerousCharsPattern.MatchString(repoURL) {
		return errors.NewInputError("repo_url contains invalid characters", repoURL, "")
	}

	switch {
	case strings.HasPrefix(repoURL, "http://"), strings.HasPrefix(repoURL, "https://"):
		parsed, err := url.Parse(repoURL)
		if err != nil {
			return errors.NewInputError("repo_url is not a valid URL", err.Error(), "")
		}
		if parsed.Host == "" {
			return errors.NewInputError("repo_url is missing a host", repoURL, "")
		}
		return nil
	case strings.HasPrefix(repoURL, "git@"), strings.HasPrefix(repoURL, "ssh://"):
		if !validGitURLPattern.MatchString(repoURL) {
			return errors.NewInputError("repo_url is not a valid SSH git URL", repoURL, "")
		}
		return nil
	case strings.HasPrefix(repoURL, "file://"):
		return nil
	default:
		return errors.NewInputError("repo_url has an unsupported protocol", repoURL, "use https://, git@, ssh://, or file://")
	}
}

// cloneRepo performs a shallow clone of repoURL into a fresh temporary
// directory and returns its path. The caller must remove the directory
// once done, on every exit path, successful or not.
func cloneRepo(logger *slog.Logger, repoURL string) (string, error) {
	if err := validateGitURL(repoURL); err != nil {
		return "", err
	}

	tmpDir, err := os.MkdirTemp("", "autowiki-ingest-*")
	if err != nil {
		return "", errors.NewFilesystemError("failed to create temporary clone directory", err.Error(), "", err)
	}

	logURL := redactURL(repoURL)
	logger.Info("ingestion.clone.start", "url", logURL, "dir", tmpDir)

	_, err = git.PlainClone(tmpDir, false, &git.CloneOptions{
		URL:   repoURL,
		Depth: 1,
	})
	if err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", errors.NewExternalError("git clone failed", err.Error(), "verify the repository URL is reachable", err)
	}

	logger.Info("ingestion.clone.success", "url", logURL, "dir", tmpDir)
	return tmpDir, nil
}

func redactURL(repoURL string) string {
	parsed, err := url.Parse(repoURL)
	if err != nil {
		return repoURL
	}
	parsed.RawQuery = ""
	if parsed.User != nil {
		parsed.User = url.User("***")
	}
	return parsed.String()
}
