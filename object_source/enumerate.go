package object_source

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/turbot/tailpipe-file-ingest/config"
	"github.com/turbot/tailpipe-file-ingest/constants"
	"github.com/turbot/tailpipe-file-ingest/types"
)

// ErrNoMatchingObjects is returned when no listed key matches the table search pattern
var ErrNoMatchingObjects = errors.New("no objects matched the search pattern")

// Enumeration is the result of listing the objects of a table
type Enumeration struct {
	// objects matching the pattern and modified after the threshold, in listing order
	Objects []*types.ObjectInfo
	// counts of listed keys which did and did not match the search pattern
	Matched   int
	Unmatched int
}

// Enumerate lists the objects of the table which match its search pattern and were
// modified strictly after modifiedSince
func Enumerate(ctx context.Context, src ObjectSource, spec *config.TableSpec, modifiedSince time.Time) (*Enumeration, error) {
	matcher, err := spec.Matcher()
	if err != nil {
		return nil, err
	}

	prefix := spec.GetSearchPrefix()
	slog.Info("Listing objects", "table", spec.TableName, "location", src.Location(), "prefix", prefix, "recursive", spec.IsRecursive(), "modified_since", modifiedSince)

	res := &Enumeration{}
	err = src.List(ctx, prefix, spec.IsRecursive(), func(obj *types.ObjectInfo) error {
		if matcher.MatchString(obj.Key) {
			res.Matched++
			if obj.LastModified.After(modifiedSince) {
				res.Objects = append(res.Objects, obj)
			}
		} else {
			res.Unmatched++
		}

		if listed := res.Matched + res.Unmatched; listed%constants.ListLogInterval == 0 {
			logMatchRatio(spec, res)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list objects for table %s: %w", spec.TableName, err)
	}

	logMatchRatio(spec, res)
	if res.Matched == 0 {
		return nil, fmt.Errorf("table %s, pattern %q: %w", spec.TableName, spec.SearchPattern, ErrNoMatchingObjects)
	}
	slog.Info("Found objects to sync", "table", spec.TableName, "count", len(res.Objects))
	return res, nil
}

func logMatchRatio(spec *config.TableSpec, res *Enumeration) {
	listed := res.Matched + res.Unmatched
	if listed == 0 {
		return
	}
	if res.Unmatched > res.Matched {
		slog.Warn("Most listed objects did not match the search pattern, consider setting search_prefix", "table", spec.TableName, "matched", res.Matched, "unmatched", res.Unmatched)
		return
	}
	slog.Info("Listed objects", "table", spec.TableName, "matched", res.Matched, "unmatched", res.Unmatched)
}
