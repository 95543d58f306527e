package client

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/trbck/tagged-logger/internal/taglog"
)

// printedRecord is the JSON shape commands write to stdout.
type printedRecord struct {
	ID     int64          `json:"id"`
	TS     time.Time      `json:"ts"`
	Text   string         `json:"text"`
	Attrs  map[string]any `json:"attrs,omitempty"`
	Tags   []string       `json:"tags,omitempty"`
	Expire *time.Time     `json:"expire,omitempty"`
}

func toPrinted(rec *taglog.Record) printedRecord {
	return printedRecord{
		ID:     rec.ID,
		TS:     rec.TS,
		Text:   rec.String(),
		Attrs:  rec.Attrs,
		Tags:   rec.Tags,
		Expire: rec.Expire,
	}
}

// NewLogCommand constructs the `log` command: write one record.
func NewLogCommand() *cobra.Command {
	logCmd := &cobra.Command{
		Use:   "log <message>",
		Short: "Write a record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tags, _ := cmd.Flags().GetStringArray("tag")
			attrs, _ := cmd.Flags().GetStringArray("attr")
			tas, _ := cmd.Flags().GetStringArray("ta")
			at, _ := cmd.Flags().GetString("at")
			expireAt, _ := cmd.Flags().GetString("expire-at")
			expireAfter, _ := cmd.Flags().GetDuration("expire-after")

			var marks []taglog.Mark
			for _, t := range tags {
				marks = append(marks, taglog.Tag(t))
			}
			for _, p := range attrs {
				k, v, err := parsePair(p)
				if err != nil {
					return err
				}
				marks = append(marks, taglog.Attr(k, v))
			}
			for _, p := range tas {
				k, v, err := parsePair(p)
				if err != nil {
					return err
				}
				marks = append(marks, taglog.TA(k, v))
			}
			if at != "" {
				ts, err := parseTime(at)
				if err != nil {
					return err
				}
				marks = append(marks, taglog.At(ts))
			}
			if expireAt != "" {
				ts, err := parseTime(expireAt)
				if err != nil {
					return err
				}
				marks = append(marks, taglog.ExpireAt(ts))
			}
			if expireAfter > 0 {
				marks = append(marks, taglog.ExpireAfter(expireAfter))
			}

			e, err := openEnv(cmd)
			if err != nil {
				return err
			}
			defer e.Close()
			return e.eng.Log(cmd.Context(), args[0], marks...)
		},
	}
	logCmd.Flags().StringArrayP("tag", "t", nil, "Tag to attach (repeatable)")
	logCmd.Flags().StringArrayP("attr", "a", nil, "Attribute key=value (repeatable)")
	logCmd.Flags().StringArray("ta", nil, "Tagging attribute key=value (repeatable)")
	logCmd.Flags().String("at", "", "Record timestamp: RFC3339 or unix seconds (default now)")
	logCmd.Flags().String("expire-at", "", "Absolute expiry: RFC3339 or unix seconds")
	logCmd.Flags().Duration("expire-after", 0, "Expiry relative to the record timestamp (e.g. 24h)")
	return logCmd
}

// NewGetCommand constructs the `get` command: query records, newest first.
func NewGetCommand() *cobra.Command {
	getCmd := &cobra.Command{
		Use:   "get",
		Short: "Query records, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts, err := queryOptsFromFlags(cmd)
			if err != nil {
				return err
			}

			e, err := openEnv(cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			recs, err := e.eng.Query(cmd.Context(), opts)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			for _, rec := range recs {
				if err := enc.Encode(toPrinted(rec)); err != nil {
					return err
				}
			}
			return nil
		},
	}
	addQueryFlags(getCmd)
	getCmd.Flags().Int("limit", 0, "Stop after N records (0 = all)")
	return getCmd
}

// NewLatestCommand constructs the `latest` command: print the newest record.
func NewLatestCommand() *cobra.Command {
	latestCmd := &cobra.Command{
		Use:   "latest",
		Short: "Print the newest matching record",
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts, err := queryOptsFromFlags(cmd)
			if err != nil {
				return err
			}

			e, err := openEnv(cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			rec, err := e.eng.GetLatest(cmd.Context(), opts)
			if err != nil {
				return err
			}
			if rec == nil {
				return fmt.Errorf("no matching record")
			}
			return json.NewEncoder(cmd.OutOrStdout()).Encode(toPrinted(rec))
		},
	}
	addQueryFlags(latestCmd)
	return latestCmd
}

func addQueryFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("tag", "t", "", "Restrict to one tag")
	cmd.Flags().StringP("attr", "a", "", "Restrict to one tagging attribute key=value")
	cmd.Flags().String("min-ts", "", "Oldest timestamp: RFC3339 or unix seconds")
	cmd.Flags().String("max-ts", "", "Newest timestamp: RFC3339 or unix seconds")
	cmd.Flags().String("filter", "", "CEL filter expression")
}

func queryOptsFromFlags(cmd *cobra.Command) (taglog.QueryOptions, error) {
	var opts taglog.QueryOptions
	opts.Tag, _ = cmd.Flags().GetString("tag")
	opts.Filter, _ = cmd.Flags().GetString("filter")
	if cmd.Flags().Lookup("limit") != nil {
		opts.Limit, _ = cmd.Flags().GetInt("limit")
	}
	if p, _ := cmd.Flags().GetString("attr"); p != "" {
		k, v, err := parsePair(p)
		if err != nil {
			return opts, err
		}
		opts.Attrs = map[string]any{k: v}
	}
	var err error
	if s, _ := cmd.Flags().GetString("min-ts"); s != "" {
		if opts.MinTS, err = parseTime(s); err != nil {
			return opts, err
		}
	}
	if s, _ := cmd.Flags().GetString("max-ts"); s != "" {
		if opts.MaxTS, err = parseTime(s); err != nil {
			return opts, err
		}
	}
	return opts, nil
}
