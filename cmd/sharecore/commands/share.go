package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/adc-share/sharecore/internal/logger"
	"github.com/adc-share/sharecore/internal/telemetry"
	"github.com/adc-share/sharecore/pkg/config"
	"github.com/adc-share/sharecore/pkg/localhash"
	"github.com/adc-share/sharecore/pkg/sharetree"
)

// buildTree scans every configured share root on disk into a fresh
// ShareTree, hashing file content through the persistent local hash
// database so repeated runs only re-hash changed files. Each root scan
// is wrapped in its own span so a slow share is visible in a trace.
func buildTree(ctx context.Context, cfg *config.Config) (*sharetree.ShareTree, error) {
	hashDir := filepath.Join(config.GetConfigDir(), "hashes")
	hashDB, err := localhash.Open(hashDir)
	if err != nil {
		return nil, fmt.Errorf("open hash database: %w", err)
	}
	defer hashDB.Close()

	tree := sharetree.NewShareTree(1 << 16)
	for _, root := range cfg.Shares {
		profiles := sharetree.NewProfileTokenSet()
		for _, p := range root.Profiles {
			profiles.Add(sharetree.ProfileToken(p))
		}

		info, err := os.Stat(root.Path)
		if err != nil {
			return nil, fmt.Errorf("stat share root %s: %w", root.Path, err)
		}

		rootDir, err := tree.AddShareRoot(root.Path, root.VirtualName, profiles, root.Incoming, info.ModTime())
		if err != nil {
			return nil, fmt.Errorf("add share root %s: %w", root.Path, err)
		}

		spanCtx, span := telemetry.StartIndexSpan(ctx, root.VirtualName, telemetry.FSPath(root.Path))
		err = indexDirectory(tree, hashDB, rootDir, root.Path)
		if err != nil {
			telemetry.RecordError(spanCtx, err)
		}
		span.End()
		if err != nil {
			return nil, fmt.Errorf("index share root %s: %w", root.Path, err)
		}
	}

	return tree, nil
}

// indexDirectory walks realPath on disk, mirroring its files and
// subdirectories into dir within tree, hashing each file's content via
// hashDB.
func indexDirectory(tree *sharetree.ShareTree, hashDB *localhash.Database, dir *sharetree.ShareDirectory, realPath string) error {
	entries, err := os.ReadDir(realPath)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		childPath := filepath.Join(realPath, entry.Name())

		if entry.IsDir() {
			info, err := entry.Info()
			if err != nil {
				logger.Warn("skipping unreadable directory", "path", childPath, "error", err)
				continue
			}

			childDir, err := tree.CreateDirectory(dir, sharetree.NewDualString(entry.Name()), info.ModTime())
			if err != nil {
				logger.Warn("skipping directory", "path", childPath, "error", err)
				continue
			}

			if err := indexDirectory(tree, hashDB, childDir, childPath); err != nil {
				return err
			}
			continue
		}

		info, err := entry.Info()
		if err != nil {
			logger.Warn("skipping unreadable file", "path", childPath, "error", err)
			continue
		}

		tth, err := localhash.ResolveOrHash(hashDB, childPath, info.Size(), info.ModTime())
		if err != nil {
			logger.Warn("skipping unhashable file", "path", childPath, "error", err)
			continue
		}

		if err := tree.AddFile(dir, sharetree.NewDualString(entry.Name()), info.Size(), info.ModTime(), tth); err != nil {
			logger.Warn("skipping file", "path", childPath, "error", err)
			continue
		}
	}

	return nil
}
