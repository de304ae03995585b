/*
Package types defines the data structures exchanged with the analysis service.

# Overview

The types package provides shared type definitions for:
  - The analyze request sent to POST /analyze
  - The analyze response and its analysis object
  - Persisted history entries

# Analysis Shapes

The analysis object comes in three shapes:
  - Error: a single "error" field
  - Raw: a single "raw_analysis" field holding free text
  - Structured: optional title, author, publish date, source site, summary
    and keywords fields, keyed by their Chinese names

Structured fields are decoded leniently. A value that is not a JSON string
is converted to text the way a browser would concatenate it into a string,
so a model that answers with a list of authors still renders. Presence
follows browser truthiness: null, "", 0 and false leave a field unset,
while an empty list or object sets it.

# Keywords

Keywords arrive either as a delimited string or as a list:

	"主要话题和关键词": "Go, 并发、调度，性能"
	"主要话题和关键词": ["Go", "并发", "调度"]

Strings are split on the ASCII comma, the fullwidth comma and the
ideographic comma. Entries returns the trimmed, non-blank items in order.

# Field Tags

All types carry JSON and YAML tags so responses can be printed with
`pagescope analyze -o yaml` and stored verbatim in history.
*/
package types
