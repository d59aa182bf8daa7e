package browser

import (
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"

	"github.com/yllada/ai-wrapper/adblock"
	"github.com/yllada/ai-wrapper/common"
)

// interceptRequests routes every request that could match filter through a
// check. Matches fail with BlockedByClient; everything else continues
// untouched. The router runs until stopped.
func interceptRequests(page *rod.Page, serviceID string, filter *adblock.Blocklist, log common.Logger) (*rod.HijackRouter, error) {
	router := page.HijackRequests()
	handler := func(h *rod.Hijack) {
		url := h.Request.URL().String()
		if pattern, blocked := filter.Check(url); blocked {
			log.Debug("%s: blocked %s (%s)", serviceID, url, pattern)
			h.Response.Fail(proto.NetworkErrorReasonBlockedByClient)
			return
		}
		h.ContinueRequest(&proto.FetchContinueRequest{})
	}
	for _, pattern := range filter.TriggerPatterns() {
		if err := router.Add(pattern, "", handler); err != nil {
			router.Stop()
			return nil, err
		}
	}
	go router.Run()
	return router, nil
}
