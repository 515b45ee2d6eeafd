// Copyright (C) 2024 Creditor Corp. Group.
// See LICENSE for copying information.

// Package api implements the indexer's read surface (component H): every
// get_* method a host (an HTTP server, a CLI, a test) needs to answer
// questions about indexed inscriptions, sats, blocks, and BRC-20 state,
// without ever mutating the catalog ApplyBlock writes to.
package api

// MaxLimit is the hard cap on a single page's size.
const MaxLimit = 100

// Page describes one page of a paginated result: the limit and
// zero-based page number that produced it, the total number of matching
// records, and whether a further page exists.
type Page struct {
	Limit   int
	PageNum int
	Total   int
	More    bool
}

// clampLimit normalizes a caller-supplied limit to (0, MaxLimit].
func clampLimit(limit int) int {
	if limit <= 0 || limit > MaxLimit {
		return MaxLimit
	}

	return limit
}

// slicePage returns the [start, end) sub-slice of total items that page
// (limit, pageNum) selects, along with the Page descriptor for it.
func slicePage(total int, limit, pageNum int) (start, end int, page Page) {
	limit = clampLimit(limit)
	if pageNum < 0 {
		pageNum = 0
	}

	start = pageNum * limit
	if start > total {
		start = total
	}
	end = start + limit
	if end > total {
		end = total
	}

	return start, end, Page{
		Limit:   limit,
		PageNum: pageNum,
		Total:   total,
		More:    end < total,
	}
}
