// Package router maps named coach pages to URLs.
package router

import (
	"fmt"
	"net/url"
)

// Page names a navigable coach page
type Page string

const (
	PageLogin           Page = "LOGIN"
	PageClassList       Page = "CLASS_LIST"
	PageTopicItemList   Page = "TOPIC_ITEM_LIST"
	PageItemLearnerList Page = "ITEM_LEARNER_LIST"
	PageTopicExport     Page = "TOPIC_EXPORT"
)

// Params are the route parameters a target may carry
type Params struct {
	ClassID   string
	ChannelID string
	TopicID   string
	ContentID string
}

// Target is a navigation destination: a page plus its parameters
type Target struct {
	PageName Page
	Params   Params
}

// URL renders a target as a path. Parameters a page needs but the target lacks
// produce an error rather than a broken link.
func URL(t Target) (string, error) {
	p := t.Params
	esc := url.PathEscape

	switch t.PageName {
	case PageLogin:
		return "/login", nil
	case PageClassList:
		return "/coach/classes", nil
	case PageTopicItemList:
		if p.ClassID == "" || p.ChannelID == "" {
			return "", fmt.Errorf("%s needs classId and channelId", t.PageName)
		}
		base := "/coach/" + esc(p.ClassID) + "/reports/" + esc(p.ChannelID)
		if p.TopicID == "" {
			return base, nil
		}
		return base + "/topics/" + esc(p.TopicID), nil
	case PageTopicExport:
		if p.ClassID == "" || p.ChannelID == "" || p.TopicID == "" {
			return "", fmt.Errorf("%s needs classId, channelId and topicId", t.PageName)
		}
		return "/coach/" + esc(p.ClassID) + "/reports/" + esc(p.ChannelID) + "/topics/" + esc(p.TopicID) + "/export.xlsx", nil
	case PageItemLearnerList:
		if p.ClassID == "" || p.ChannelID == "" || p.ContentID == "" {
			return "", fmt.Errorf("%s needs classId, channelId and contentId", t.PageName)
		}
		return "/coach/" + esc(p.ClassID) + "/reports/" + esc(p.ChannelID) + "/items/" + esc(p.ContentID) + "/learners", nil
	}
	return "", fmt.Errorf("unknown page %q", t.PageName)
}

// MustURL is URL for targets built from trusted state; it panics on error
func MustURL(t Target) string {
	u, err := URL(t)
	if err != nil {
		panic(err)
	}
	return u
}
