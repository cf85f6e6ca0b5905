package i18n

import (
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

// Localizer resolves caller-facing error messages for the languages the
// analysis API accepts. Messages are embedded; the service ships no
// translation files.
type Localizer struct {
	defaultLanguage string
	localizers      map[string]*i18n.Localizer
}

// Message IDs
const (
	MsgInvalidRequest      = "invalid_request"
	MsgRateLimited         = "rate_limited"
	MsgBillingBlocked      = "billing_blocked"
	MsgUpstreamUnavailable = "upstream_unavailable"
	MsgMalformedResponse   = "malformed_response"
)

var languageTags = map[string]language.Tag{
	"english":             language.English,
	"cantonese":           language.MustParse("yue-Hant"),
	"chinese_traditional": language.TraditionalChinese,
	"chinese_simplified":  language.SimplifiedChinese,
}

var messages = map[string]map[string]string{
	"english": {
		MsgInvalidRequest:      "Please provide a message or an image to analyze.",
		MsgRateLimited:         "Rate limit exceeded. Please try again later.",
		MsgBillingBlocked:      "Payment required. Please add credits to your workspace.",
		MsgUpstreamUnavailable: "The analysis service is temporarily unavailable. Please try again.",
		MsgMalformedResponse:   "The analysis could not be completed. Please try again.",
	},
	"cantonese": {
		MsgInvalidRequest:      "請提供要分析嘅訊息或者圖片。",
		MsgRateLimited:         "請求太頻繁，請稍後再試。",
		MsgBillingBlocked:      "需要付款，請為你嘅工作區增值。",
		MsgUpstreamUnavailable: "分析服務暫時唔可用，請稍後再試。",
		MsgMalformedResponse:   "分析未能完成，請再試一次。",
	},
	"chinese_traditional": {
		MsgInvalidRequest:      "請提供要分析的訊息或圖片。",
		MsgRateLimited:         "請求過於頻繁，請稍後再試。",
		MsgBillingBlocked:      "需要付款，請為您的工作區儲值。",
		MsgUpstreamUnavailable: "分析服務暫時無法使用，請稍後再試。",
		MsgMalformedResponse:   "分析未能完成，請再試一次。",
	},
	"chinese_simplified": {
		MsgInvalidRequest:      "请提供要分析的消息或图片。",
		MsgRateLimited:         "请求过于频繁，请稍后再试。",
		MsgBillingBlocked:      "需要付款，请为您的工作区充值。",
		MsgUpstreamUnavailable: "分析服务暂时不可用，请稍后再试。",
		MsgMalformedResponse:   "分析未能完成，请重试一次。",
	},
}

// NewLocalizer creates a localizer with the embedded message catalogs.
func NewLocalizer(defaultLanguage string) *Localizer {
	bundle := i18n.NewBundle(language.English)

	localizers := make(map[string]*i18n.Localizer)
	for lang, catalog := range messages {
		tag := languageTags[lang]
		for id, other := range catalog {
			bundle.AddMessages(tag, &i18n.Message{ID: id, Other: other})
		}
		localizers[lang] = i18n.NewLocalizer(bundle, tag.String())
	}

	if _, ok := localizers[defaultLanguage]; !ok {
		defaultLanguage = "english"
	}

	return &Localizer{
		defaultLanguage: defaultLanguage,
		localizers:      localizers,
	}
}

// Get returns localized message
func (l *Localizer) Get(lang, messageID string) string {
	localizer, exists := l.localizers[lang]
	if !exists {
		localizer = l.localizers[l.defaultLanguage]
	}

	msg, err := localizer.Localize(&i18n.LocalizeConfig{MessageID: messageID})
	if err != nil {
		return messageID // Fallback to message ID
	}

	return msg
}
