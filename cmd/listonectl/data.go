package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"vvf-listone/internal/model"
	"vvf-listone/internal/repository"
	"vvf-listone/internal/storage"
)

func init() {
	// clear
	var yes bool
	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove every stored key of the namespace (seed data is used on next start)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("refusing to clear without --yes")
			}
			e, err := openEnv()
			if err != nil {
				return err
			}
			defer e.close()
			return runClear(cmd.Context(), e.adapter, cmd.OutOrStdout())
		},
	}
	clearCmd.Flags().BoolVarP(&yes, "yes", "y", false, "confirm")
	rootCmd.AddCommand(clearCmd)

	// session
	sessionCmd := &cobra.Command{Use: "session", Short: "Session operations"}
	sessionCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv()
			if err != nil {
				return err
			}
			defer e.close()
			return runSessionShow(cmd.Context(), e.adapter, cmd.OutOrStdout())
		},
	})
	sessionCmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Log the current user out",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv()
			if err != nil {
				return err
			}
			defer e.close()
			e.adapter.ClearSession(cmd.Context())
			fmt.Fprintln(cmd.OutOrStdout(), "session cleared")
			return nil
		},
	})
	rootCmd.AddCommand(sessionCmd)

	// events
	eventsCmd := &cobra.Command{Use: "events", Short: "Event operations"}
	var date string
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List stored events, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			if date != "" && !model.IsISODate(date) {
				return fmt.Errorf("--date must be YYYY-MM-DD")
			}
			e, err := openEnv()
			if err != nil {
				return err
			}
			defer e.close()
			return runEventsList(cmd.Context(), e.adapter, date, cmd.OutOrStdout())
		},
	}
	listCmd.Flags().StringVarP(&date, "date", "d", "", "only events of this day")
	eventsCmd.AddCommand(listCmd)
	rootCmd.AddCommand(eventsCmd)

	// keys
	rootCmd.AddCommand(&cobra.Command{
		Use:   "keys",
		Short: "List the namespace keys and their sizes",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv()
			if err != nil {
				return err
			}
			defer e.close()
			if e.backend.KV != nil {
				return runKeysFromRepo(cmd.Context(), e.backend.KV, e.cfg.Storage.Namespace, cmd.OutOrStdout())
			}
			return runKeys(cmd.Context(), e.backend.Store, e.adapter.Keys(), cmd.OutOrStdout())
		},
	})
}

func runClear(ctx context.Context, a *storage.Adapter, w io.Writer) error {
	a.ClearAll(ctx)
	fmt.Fprintf(w, "cleared %d keys\n", len(a.Keys().All()))
	return nil
}

func runSessionShow(ctx context.Context, a *storage.Adapter, w io.Writer) error {
	sess := a.LoadSession(ctx)
	if sess == nil {
		fmt.Fprintln(w, "no active session")
		return nil
	}
	fmt.Fprintf(w, "role: %s\nauthenticated at: %s\n", sess.Role, sess.AuthenticatedAt.Format(time.RFC3339))
	return nil
}

func runEventsList(ctx context.Context, a *storage.Adapter, date string, w io.Writer) error {
	events := a.LoadEvents(ctx, nil)
	if events == nil {
		fmt.Fprintln(w, "no stored events (seed roster in use)")
		return nil
	}
	if date != "" {
		events = model.FilterByDate(events, date)
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDATE\tTITLE\tTYPE\tSHIFT")
	for _, ev := range events {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", ev.ID, ev.Date, ev.Field("title"), ev.Field("type"), ev.Field("shift"))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(w, "%d events\n", len(events))
	return nil
}

func runKeys(ctx context.Context, store storage.Store, keys storage.Keys, w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "KEY\tBYTES")
	for _, key := range keys.All() {
		v, found, err := store.Get(ctx, key)
		if err != nil {
			return fmt.Errorf("read %s: %w", key, err)
		}
		if !found {
			fmt.Fprintf(tw, "%s\t-\n", key)
			continue
		}
		fmt.Fprintf(tw, "%s\t%d\n", key, len(v))
	}
	return tw.Flush()
}

func runKeysFromRepo(ctx context.Context, kv repository.KVRepository, namespace string, w io.Writer) error {
	entries, err := kv.ListByPrefix(ctx, namespace+":")
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "KEY\tBYTES\tUPDATED")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%d\t%s\n", e.Key, len(e.Value), e.UpdatedAt.Format(time.RFC3339))
	}
	return tw.Flush()
}
