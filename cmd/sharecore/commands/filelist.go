package commands

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/adc-share/sharecore/internal/logger"
	"github.com/adc-share/sharecore/internal/telemetry"
	"github.com/adc-share/sharecore/pkg/config"
	"github.com/adc-share/sharecore/pkg/filelist"
	"github.com/adc-share/sharecore/pkg/sharetree"
	"github.com/spf13/cobra"
)

var (
	filelistPath      string
	filelistRecursive bool
	filelistProfile   int
)

var filelistCmd = &cobra.Command{
	Use:   "filelist",
	Short: "Generate a DC++ filelist XML document for a virtual path",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		cacheDir := cfg.Filelist.CacheDir
		if cacheDir == "" {
			cacheDir = filepath.Join(config.GetConfigDir(), "filelist-cache")
		}
		cache, err := filelist.OpenDocumentCache(cacheDir)
		if err != nil {
			return fmt.Errorf("open filelist cache: %w", err)
		}
		defer cache.Close()

		_, span := telemetry.StartFilelistSpan(cmd.Context(), filelistPath, telemetry.FSProfile(filelistProfile))
		defer span.End()

		profileKey := strconv.Itoa(filelistProfile)
		if doc, ok := cache.Get(filelistPath, profileKey, filelistRecursive); ok {
			stats.ObserveFilelistCacheHit(true)
			span.SetAttributes(telemetry.CacheHit(true))
			logger.Debug("filelist cache hit", "path", filelistPath, "profile", filelistProfile)
			_, err := cmd.OutOrStdout().Write(doc)
			return err
		}
		stats.ObserveFilelistCacheHit(false)
		span.SetAttributes(telemetry.CacheHit(false))

		tree, err := buildTree(cmd.Context(), cfg)
		if err != nil {
			return err
		}

		dupHandler := func(virtualPath, fileName string) {
			logger.Warn("duplicate file name across merged roots", "path", virtualPath, "file", fileName)
		}

		profiles := sharetree.NewProfileTokenSet(sharetree.ProfileToken(filelistProfile))

		var buf bytes.Buffer
		if err := filelist.WriteFilelist(&buf, tree, filelistPath, profiles, filelistRecursive, cfg.CID, cfg.Filelist.Generator, dupHandler); err != nil {
			telemetry.RecordError(cmd.Context(), err)
			return err
		}

		if err := cache.Put(filelistPath, profileKey, filelistRecursive, buf.Bytes(), cfg.Filelist.CacheTTL); err != nil {
			logger.Warn("failed to cache generated filelist", "path", filelistPath, "error", err)
		}
		stats.ObserveFilelistGeneration(filelistRecursive)

		_, err = cmd.OutOrStdout().Write(buf.Bytes())
		return err
	},
}

func init() {
	filelistCmd.Flags().StringVar(&filelistPath, "path", "/", "virtual path to generate a filelist for")
	filelistCmd.Flags().BoolVar(&filelistRecursive, "recursive", true, "include every descendant directory's contents")
	filelistCmd.Flags().IntVar(&filelistProfile, "profile", 1, "share profile to generate the filelist for")
	rootCmd.AddCommand(filelistCmd)
}
