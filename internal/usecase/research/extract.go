package research

import (
	"net/url"
	"regexp"
	"sort"
	"strings"

	"github.com/qamqor-cloud/sponsorscope/internal/domain/research"
)

// excludedDomains are never a company's own site: social networks,
// search portals, and directories that merely mention it.
var excludedDomains = []string{
	"facebook.com", "instagram.com", "linkedin.com", "twitter.com",
	"vk.com", "ok.ru", "youtube.com", "telegram.org",
	"google.com", "yandex.kz", "yandex.ru", "mail.ru",
	"wikipedia.org", "wiki", "directory", "catalog",
}

// officialIndicators boost hits that present themselves as the
// company's own page.
var officialIndicators = []string{
	"официальный", "official", "компания", "company", "сайт", "website",
}

// Kazakhstan phone formats: +7/8 prefixed or bare 10-digit.
var phonePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\+7\s*\(?[0-9]{3}\)?\s*[0-9]{3}[\-\s]*[0-9]{2}[\-\s]*[0-9]{2}`),
	regexp.MustCompile(`8\s*\(?[0-9]{3}\)?\s*[0-9]{3}[\-\s]*[0-9]{2}[\-\s]*[0-9]{2}`),
	regexp.MustCompile(`\(?[0-9]{3}\)?\s*[0-9]{3}[\-\s]*[0-9]{2}[\-\s]*[0-9]{2}`),
}

var (
	emailPattern    = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)
	phoneNoiseChars = regexp.MustCompile(`[\s\-()]`)
)

// extractWebInfo distills website, contacts, and confidence from raw
// hits. The best-scoring candidate website wins; the two best contact
// snippets are joined. Order among equal scores follows hit order, so
// the provider's own ranking breaks ties.
func extractWebInfo(hits []research.Hit, companyName string) research.WebInfo {
	type scored struct {
		value string
		score float64
	}
	var websites, contacts []scored
	var confidence float64

	for _, h := range hits {
		score := relevance(h.Title, h.Snippet, companyName)
		if score > confidence {
			confidence = score
		}
		if likelyCompanyWebsite(h.Link) {
			websites = append(websites, scored{h.Link, score})
		}
		if c := extractContacts(h.Snippet); c != "" {
			contacts = append(contacts, scored{c, score})
		}
	}

	info := research.WebInfo{Confidence: confidence}

	if len(websites) > 0 {
		sort.SliceStable(websites, func(i, j int) bool { return websites[i].score > websites[j].score })
		info.Website = &websites[0].value
	}
	if len(contacts) > 0 {
		sort.SliceStable(contacts, func(i, j int) bool { return contacts[i].score > contacts[j].score })
		if len(contacts) > 2 {
			contacts = contacts[:2]
		}
		joined := make([]string, len(contacts))
		for i, c := range contacts {
			joined[i] = c.value
		}
		s := strings.Join(joined, " | ")
		info.Contacts = &s
	}
	return info
}

// relevance scores a hit against the company name: name tokens in the
// title weigh most, tokens in the snippet and official-site markers
// less. Capped at 1.0.
func relevance(title, snippet, companyName string) float64 {
	var score float64
	titleLower := strings.ToLower(title)
	snippetLower := strings.ToLower(snippet)

	for _, word := range strings.Fields(strings.ToLower(cleanCompanyName(companyName))) {
		if len([]rune(word)) <= 2 {
			continue
		}
		if strings.Contains(titleLower, word) {
			score += 0.3
		}
		if strings.Contains(snippetLower, word) {
			score += 0.2
		}
	}

	for _, indicator := range officialIndicators {
		if strings.Contains(titleLower, indicator) {
			score += 0.1
		}
		if strings.Contains(snippetLower, indicator) {
			score += 0.05
		}
	}

	if score > 1.0 {
		score = 1.0
	}
	return score
}

// likelyCompanyWebsite filters out domains that cannot be the
// company's own site. Anything not excluded passes: a too-strict
// filter loses real sites, and scoring already ranks the candidates.
func likelyCompanyWebsite(link string) bool {
	u, err := url.Parse(link)
	if err != nil {
		return false
	}
	domain := strings.ToLower(u.Hostname())
	for _, excluded := range excludedDomains {
		if strings.Contains(domain, excluded) {
			return false
		}
	}
	return true
}

// extractContacts pulls Kazakhstan-format phone numbers and email
// addresses out of free text.
func extractContacts(text string) string {
	var contacts []string

	for _, pattern := range phonePatterns {
		for _, phone := range pattern.FindAllString(text, -1) {
			if len(phoneNoiseChars.ReplaceAllString(phone, "")) >= 10 {
				contacts = append(contacts, "тел: "+strings.TrimSpace(phone))
			}
		}
	}
	for _, email := range emailPattern.FindAllString(text, -1) {
		contacts = append(contacts, "email: "+email)
	}
	return strings.Join(contacts, ", ")
}
