// Package livemetrics lets a monitored entity report live metrics:
// time-series performance data bucketed by an interval.
//
// An entity declares the metrics it supports in a per-type YAML file
// (`<entity_type>.yaml`) resolved and cached by a Registry. Sample
// collection is delegated to a Capture service. The package merges
// per-metric series returned by the capture service into one series and
// derives the displayable first/last capture window for an entity.
//
// A declaration looks like:
//
//	supported_metrics:
//	  - cpu_usage_rate_average: cpu_usage_rate_average
//	    mem_usage_absolute_average: mem_usage_absolute_average
//	  - disk_usage_rate_average: disk_usage_rate_average
//	included_children:
//	  - vm
//
// A missing file is an empty declaration. A malformed file is a
// METRIC_VALIDATION error and is never cached.
package livemetrics
