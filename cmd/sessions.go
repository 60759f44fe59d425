// file: cmd/sessions.go
// version: 2.1.0
// guid: c8f6a0d4-2a8b-48cf-9d08-02cc9915d9fc

package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cockroachdb/pebble/v2"
	"github.com/spf13/cobra"

	"github.com/elsayedebiad/qsr-final-sub001/internal/backup"
	"github.com/elsayedebiad/qsr-final-sub001/internal/config"
	"github.com/elsayedebiad/qsr-final-sub001/internal/database"
)

var (
	sessionsCmd = &cobra.Command{
		Use:   "sessions",
		Short: "Inspect and prune export history",
		Long:  "Utilities for reading and cleaning the export session history database.",
	}

	sessionsListCmd = &cobra.Command{
		Use:   "list",
		Short: "List recent export sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			limit, _ := cmd.Flags().GetInt("limit")
			return withStore(func(store database.Store) error {
				return listSessions(cmd.OutOrStdout(), store, limit)
			})
		},
	}

	sessionsShowCmd = &cobra.Command{
		Use:   "show <id>",
		Short: "Show one export session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(store database.Store) error {
				return showSession(cmd.OutOrStdout(), store, args[0])
			})
		},
	}

	sessionsLogsCmd = &cobra.Command{
		Use:   "logs <id>",
		Short: "Print the log lines of an export session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tail, _ := cmd.Flags().GetInt("tail")
			return withStore(func(store database.Store) error {
				return printSessionLogs(cmd.OutOrStdout(), store, args[0], tail)
			})
		},
	}

	sessionsPruneCmd = &cobra.Command{
		Use:   "prune",
		Short: "Delete finished sessions older than a cutoff",
		RunE: func(cmd *cobra.Command, args []string) error {
			olderThan, _ := cmd.Flags().GetDuration("older-than")
			force, _ := cmd.Flags().GetBool("yes")
			dryRun, _ := cmd.Flags().GetBool("dry-run")
			return withStore(func(store database.Store) error {
				return pruneSessions(cmd.OutOrStdout(), os.Stdin, store, olderThan, force, dryRun, time.Now())
			})
		},
	}

	sessionsBackupCmd = &cobra.Command{
		Use:   "backup",
		Short: "Archive the history database",
		Long: `Archive the history database as a .tar.gz with a .sha256 checksum file.
Stop a running "serve" first; Pebble files copied while open may be torn.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")
			keep, _ := cmd.Flags().GetInt("keep")
			return createHistoryBackup(cmd.OutOrStdout(), config.AppConfig.DatabasePath, dir, keep)
		},
	}

	sessionsBackupsCmd = &cobra.Command{
		Use:   "backups",
		Short: "List history backups",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")
			return listHistoryBackups(cmd.OutOrStdout(), backupDir(dir))
		},
	}

	sessionsRestoreCmd = &cobra.Command{
		Use:   "restore <archive>",
		Short: "Restore the history database from a backup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, _ := cmd.Flags().GetString("target")
			if target == "" {
				target = config.AppConfig.DatabasePath
			}
			noVerify, _ := cmd.Flags().GetBool("no-verify")
			if err := backup.RestoreBackup(args[0], target, !noVerify); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Restored %s into %s\n", args[0], target)
			return nil
		},
	}

	sessionsRawCmd = &cobra.Command{
		Use:   "raw",
		Short: "Dump raw Pebble keys of the history database",
		RunE: func(cmd *cobra.Command, args []string) error {
			limit, _ := cmd.Flags().GetInt("limit")
			prefix, _ := cmd.Flags().GetString("prefix")
			return runRawPebbleQuery(cmd.OutOrStdout(), config.AppConfig.DatabasePath, limit, prefix)
		},
	}
)

func init() {
	sessionsListCmd.Flags().Int("limit", 20, "number of sessions to display")
	sessionsLogsCmd.Flags().Int("tail", 0, "only print the last N lines")

	sessionsPruneCmd.Flags().Duration("older-than", 30*24*time.Hour, "minimum session age")
	sessionsPruneCmd.Flags().Bool("yes", false, "skip confirmation prompt")
	sessionsPruneCmd.Flags().Bool("dry-run", false, "list sessions without deleting")

	sessionsBackupCmd.Flags().String("dir", "", "backup directory (default: backups next to the database)")
	sessionsBackupCmd.Flags().Int("keep", 10, "number of backups to keep (0 keeps all)")
	sessionsBackupsCmd.Flags().String("dir", "", "backup directory (default: backups next to the database)")
	sessionsRestoreCmd.Flags().String("target", "", "directory to restore into (default: the configured database path)")
	sessionsRestoreCmd.Flags().Bool("no-verify", false, "skip checksum verification")

	sessionsRawCmd.Flags().Int("limit", 5, "number of keys to display")
	sessionsRawCmd.Flags().String("prefix", "export:", "key prefix to inspect")

	sessionsCmd.AddCommand(sessionsListCmd)
	sessionsCmd.AddCommand(sessionsShowCmd)
	sessionsCmd.AddCommand(sessionsLogsCmd)
	sessionsCmd.AddCommand(sessionsPruneCmd)
	sessionsCmd.AddCommand(sessionsBackupCmd)
	sessionsCmd.AddCommand(sessionsBackupsCmd)
	sessionsCmd.AddCommand(sessionsRestoreCmd)
	sessionsCmd.AddCommand(sessionsRawCmd)
}

func withStore(fn func(database.Store) error) error {
	store, closeStore, err := openStore()
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer closeStore()
	if store == nil {
		return errors.New("no export history database configured")
	}
	return fn(store)
}

func listSessions(w io.Writer, store database.Store, limit int) error {
	if limit <= 0 {
		return errors.New("limit must be positive")
	}
	sessions, err := store.ListExportSessions(limit)
	if err != nil {
		return fmt.Errorf("failed to list sessions: %w", err)
	}
	if len(sessions) == 0 {
		fmt.Fprintln(w, "No export sessions found.")
		return nil
	}
	for _, s := range sessions {
		fmt.Fprintf(w, "%s  %-9s  %3d%%  %-22s  %s\n",
			s.ID, s.Status, s.Progress, s.Summary(), s.CreatedAt.Local().Format(time.DateTime))
	}
	return nil
}

func showSession(w io.Writer, store database.Store, id string) error {
	s, err := store.GetExportSession(id)
	if errors.Is(err, database.ErrNotFound) {
		return fmt.Errorf("export session %s not found", id)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "ID:       %s\n", s.ID)
	fmt.Fprintf(w, "Status:   %s\n", s.Status)
	fmt.Fprintf(w, "Records:  %d\n", len(s.RecordIDs))
	fmt.Fprintf(w, "Progress: %d%%\n", s.Progress)
	fmt.Fprintf(w, "Result:   %s\n", s.Summary())
	if s.Output != "" {
		fmt.Fprintf(w, "Output:   %s\n", s.Output)
	}
	fmt.Fprintf(w, "Created:  %s\n", s.CreatedAt.Local().Format(time.DateTime))
	if s.StartedAt != nil {
		fmt.Fprintf(w, "Started:  %s\n", s.StartedAt.Local().Format(time.DateTime))
	}
	if s.CompletedAt != nil {
		fmt.Fprintf(w, "Finished: %s\n", s.CompletedAt.Local().Format(time.DateTime))
	}
	if s.ErrorMessage != nil {
		fmt.Fprintf(w, "Error:    %s\n", *s.ErrorMessage)
	}
	return nil
}

func printSessionLogs(w io.Writer, store database.Store, id string, tail int) error {
	if _, err := store.GetExportSession(id); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return fmt.Errorf("export session %s not found", id)
		}
		return err
	}
	logs, err := store.GetExportLogs(id)
	if err != nil {
		return fmt.Errorf("failed to read logs: %w", err)
	}
	if tail > 0 && tail < len(logs) {
		logs = logs[len(logs)-tail:]
	}
	for _, l := range logs {
		fmt.Fprintf(w, "%s [%s] %s\n", l.CreatedAt.Local().Format(time.TimeOnly), strings.ToUpper(l.Level), l.Message)
		if l.Details != nil {
			fmt.Fprintf(w, "    %s\n", *l.Details)
		}
	}
	return nil
}

func pruneSessions(w io.Writer, in io.Reader, store database.Store, olderThan time.Duration, force, dryRun bool, now time.Time) error {
	if olderThan < 0 {
		return errors.New("--older-than must not be negative")
	}
	sessions, err := store.ListExportSessions(0)
	if err != nil {
		return fmt.Errorf("failed to list sessions: %w", err)
	}

	cutoff := now.Add(-olderThan)
	var stale []database.ExportSession
	for _, s := range sessions {
		if database.Terminal(s.Status) && s.CreatedAt.Before(cutoff) {
			stale = append(stale, s)
		}
	}
	if len(stale) == 0 {
		fmt.Fprintln(w, "No sessions to prune.")
		return nil
	}

	fmt.Fprintf(w, "Found %d finished sessions older than %s:\n", len(stale), olderThan)
	for i, s := range stale {
		fmt.Fprintf(w, "%2d. %s  %s  %s\n", i+1, s.ID, s.Status, s.Summary())
	}

	if dryRun {
		fmt.Fprintln(w, "Dry run enabled; no deletions were performed.")
		return nil
	}

	if !force {
		confirmed, err := promptYesNo(w, in, fmt.Sprintf("Delete %d sessions", len(stale)))
		if err != nil {
			return err
		}
		if !confirmed {
			fmt.Fprintln(w, "Aborted. No sessions deleted.")
			return nil
		}
	}

	deleted := 0
	for _, s := range stale {
		if err := store.DeleteExportSession(s.ID); err != nil {
			fmt.Fprintf(w, "Failed to delete %s: %v\n", s.ID, err)
			continue
		}
		deleted++
	}
	fmt.Fprintf(w, "Deleted %d sessions.\n", deleted)
	return nil
}

func backupDir(dir string) string {
	if dir != "" {
		return dir
	}
	return filepath.Join(filepath.Dir(config.AppConfig.DatabasePath), "backups")
}

func createHistoryBackup(w io.Writer, dbPath, dir string, keep int) error {
	if dbPath == "" {
		return errors.New("no export history database configured")
	}
	if keep < 0 {
		return errors.New("--keep must not be negative")
	}
	cfg := backup.DefaultBackupConfig()
	cfg.BackupDir = backupDir(dir)
	cfg.MaxBackups = keep

	info, err := backup.CreateBackup(dbPath, cfg)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Wrote %s (%d bytes)\n", info.Path, info.Size)
	fmt.Fprintf(w, "SHA-256: %s\n", info.Checksum)
	return nil
}

func listHistoryBackups(w io.Writer, dir string) error {
	backups, err := backup.ListBackups(dir)
	if err != nil {
		return err
	}
	if len(backups) == 0 {
		fmt.Fprintf(w, "No backups in %s.\n", dir)
		return nil
	}
	for _, b := range backups {
		fmt.Fprintf(w, "%s  %10d  %s\n", b.CreatedAt.Local().Format(time.DateTime), b.Size, b.Path)
	}
	return nil
}

func runRawPebbleQuery(w io.Writer, path string, limit int, prefix string) error {
	if limit <= 0 {
		return errors.New("limit must be positive")
	}
	db, err := pebble.Open(path, &pebble.Options{
		FormatMajorVersion: pebble.FormatNewest,
		ReadOnly:           true,
	})
	if err != nil {
		return fmt.Errorf("failed to open Pebble database: %w", err)
	}
	defer db.Close()

	iterOpts := &pebble.IterOptions{}
	if prefix != "" {
		iterOpts.LowerBound = []byte(prefix)
		iterOpts.UpperBound = append([]byte(prefix), 0xFF)
	}

	iter, err := db.NewIter(iterOpts)
	if err != nil {
		return fmt.Errorf("failed to create iterator: %w", err)
	}
	defer iter.Close()

	count := 0
	for ok := iter.First(); ok && iter.Valid(); ok = iter.Next() {
		fmt.Fprintf(w, "Key: %s\n", string(iter.Key()))
		val := iter.Value()
		fmt.Fprintf(w, "Value length: %d bytes\n", len(val))
		fmt.Fprintf(w, "Value preview: %s\n", truncateString(string(val), 500))
		fmt.Fprintln(w, "---")

		count++
		if count >= limit {
			break
		}
	}

	if err := iter.Error(); err != nil {
		return fmt.Errorf("iterator error: %w", err)
	}
	if count == 0 {
		fmt.Fprintln(w, "No keys matched the requested prefix.")
	}
	return nil
}

func promptYesNo(w io.Writer, in io.Reader, action string) (bool, error) {
	fmt.Fprintf(w, "%s? Type 'yes' to confirm: ", action)
	reader := bufio.NewReader(in)
	response, err := reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "yes", nil
}
