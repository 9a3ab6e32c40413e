package scrape

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

var (
	ssrTagOpen  = []byte(`<script id="__UNIVERSAL_DATA_FOR_REHYDRATION__" type="application/json">`)
	ssrTagClose = []byte(`</script>`)
)

// extractUniversalData finds and parses the __UNIVERSAL_DATA_FOR_REHYDRATION__
// JSON embedded in TikTok's server-rendered profile HTML.
func extractUniversalData(htmlBody []byte) (universalData, error) {
	start := bytes.Index(htmlBody, ssrTagOpen)
	if start == -1 {
		return universalData{}, fmt.Errorf("%w: rehydration script tag not found", ErrInvalidResponse)
	}
	start += len(ssrTagOpen)

	end := bytes.Index(htmlBody[start:], ssrTagClose)
	if end == -1 {
		return universalData{}, fmt.Errorf("%w: closing script tag not found", ErrInvalidResponse)
	}

	var data universalData
	if err := json.Unmarshal(htmlBody[start:start+end], &data); err != nil {
		return universalData{}, fmt.Errorf("%w: unmarshal ssr data: %v", ErrInvalidResponse, err)
	}
	return data, nil
}

// parseResult turns a profile page's universal data into a Result.
// The profile must be present; missing user data means TikTok served a
// shell page (unknown handle or anti-bot wall).
func parseResult(data universalData) (*Result, error) {
	detailRaw, ok := data.DefaultScope["webapp.user-detail"]
	if !ok {
		return nil, fmt.Errorf("%w: user detail scope missing", ErrInvalidResponse)
	}
	var detail userDetailScope
	if err := json.Unmarshal(detailRaw, &detail); err != nil {
		return nil, fmt.Errorf("%w: user detail: %v", ErrInvalidResponse, err)
	}
	if detail.UserInfo.User.UniqueID == "" {
		return nil, fmt.Errorf("%w: user data missing in ssr payload", ErrNotFound)
	}

	result := &Result{Profile: parseProfile(detail.UserInfo)}

	// Video items can be preloaded under any scope key; probe each one
	// for an itemList and skip scopes that don't decode. Malformed items
	// are dropped, not fatal. Keys are walked in sorted order so a given
	// payload always yields the same video order.
	keys := make([]string, 0, len(data.DefaultScope))
	for key := range data.DefaultScope {
		if key != "webapp.user-detail" {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	for _, key := range keys {
		var scope itemListScope
		if err := json.Unmarshal(data.DefaultScope[key], &scope); err != nil {
			continue
		}
		for _, item := range scope.ItemList {
			if v := parseVideo(item); v.VideoID != "" {
				result.Videos = append(result.Videos, v)
			}
		}
	}
	return result, nil
}
