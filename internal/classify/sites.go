package classify

import "strings"

// SiteRule maps a hostname fragment to the selector of that site's rich
// editor node.
type SiteRule struct {
	HostContains string
	Selector     string
}

// Table is an ordered site-override lookup. First match wins, so more
// specific fragments belong first.
type Table []SiteRule

// ForHost returns the rule for hostname, if any.
func (t Table) ForHost(hostname string) (SiteRule, bool) {
	h := strings.ToLower(hostname)
	for _, r := range t {
		if r.HostContains != "" && strings.Contains(h, r.HostContains) {
			return r, true
		}
	}
	return SiteRule{}, false
}

// DefaultSites covers the chat products whose editors hide the editable
// node behind wrappers. The table is data, not logic: extend it without
// touching the gate.
func DefaultSites() Table {
	return Table{
		{HostContains: "chat.openai.com", Selector: "div#prompt-textarea"},
		{HostContains: "chatgpt.com", Selector: "div#prompt-textarea"},
		{HostContains: "claude.ai", Selector: "div.ProseMirror[contenteditable='true']"},
		{HostContains: "gemini.google.com", Selector: "div.ql-editor[contenteditable='true']"},
		{HostContains: "discord.com", Selector: "div[role='textbox'][data-slate-editor='true']"},
		{HostContains: "slack.com", Selector: "div.ql-editor[contenteditable='true']"},
		{HostContains: "web.whatsapp.com", Selector: "div[contenteditable='true'][data-tab]"},
		{HostContains: "web.telegram.org", Selector: "div.input-message-input"},
	}
}
