package services

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"math/rand"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// OpenTDB category ids.
var categoryMapping = []struct {
	name       string
	providerID int
}{
	{"general", 9},        // General Knowledge
	{"science", 17},       // Science & Nature
	{"history", 23},       // History
	{"math", 19},          // Mathematics
	{"entertainment", 11}, // Entertainment: Film
	{"sports", 21},        // Sports
}

const defaultQuestionAmount = 10

// CategoryNames lists the categories the provider can serve, in seed order.
func CategoryNames() []string {
	names := make([]string, 0, len(categoryMapping))
	for _, c := range categoryMapping {
		names = append(names, c.name)
	}
	return names
}

// ProviderCategoryID maps an internal category name to the provider's id.
func ProviderCategoryID(name string) (int, bool) {
	normalized := normalizeCategoryName(name)
	for _, c := range categoryMapping {
		if c.name == normalized {
			return c.providerID, true
		}
	}
	return 0, false
}

// FetchedQuestion is a decoded, shuffled provider question not yet persisted.
type FetchedQuestion struct {
	Text          string
	OptionA       string
	OptionB       string
	OptionC       string
	OptionD       string
	CorrectAnswer string
}

type QuestionProvider interface {
	FetchQuestions(ctx context.Context, categoryName string) []FetchedQuestion
}

type openTDBResponse struct {
	ResponseCode int             `json:"response_code"`
	Results      []openTDBResult `json:"results"`
}

type openTDBResult struct {
	Question         string   `json:"question"`
	CorrectAnswer    string   `json:"correct_answer"`
	IncorrectAnswers []string `json:"incorrect_answers"`
}

// TriviaProvider talks to an OpenTDB-compatible api.php endpoint.
type TriviaProvider struct {
	baseURL string
	amount  int
	client  *http.Client
	logger  *zap.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

func NewTriviaProvider(baseURL string, amount int, timeout time.Duration, rng *rand.Rand, logger *zap.Logger) *TriviaProvider {
	if amount <= 0 {
		amount = defaultQuestionAmount
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &TriviaProvider{
		baseURL: strings.TrimRight(baseURL, "/"),
		amount:  amount,
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
		rng:     rng,
	}
}

// FetchQuestions never returns an error: every upstream failure is logged
// and reported as no questions.
func (p *TriviaProvider) FetchQuestions(ctx context.Context, categoryName string) []FetchedQuestion {
	providerID, ok := ProviderCategoryID(categoryName)
	if !ok {
		p.logger.Warn("no provider mapping for category", zap.String("category", categoryName))
		return nil
	}

	apiURL := p.buildURL(providerID)
	p.logger.Info("fetching questions from provider", zap.String("url", apiURL))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		p.logger.Error("failed to build provider request", zap.Error(err))
		return nil
	}

	resp, err := p.client.Do(req)
	if err != nil {
		p.logger.Warn("error fetching questions", zap.Error(err))
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		p.logger.Warn("provider returned non-success status", zap.Int("status", resp.StatusCode))
		return nil
	}

	var data openTDBResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		p.logger.Warn("failed to decode provider response", zap.Error(err))
		return nil
	}

	if data.ResponseCode != 0 {
		p.logger.Warn("provider returned no questions", zap.Int("response_code", data.ResponseCode))
		return nil
	}

	questions := make([]FetchedQuestion, 0, len(data.Results))
	for i, item := range data.Results {
		q, ok := p.toQuestion(item)
		if !ok {
			p.logger.Warn("skipping provider item without four options",
				zap.Int("index", i),
				zap.Int("incorrect_answers", len(item.IncorrectAnswers)))
			continue
		}
		questions = append(questions, q)
	}

	p.logger.Info("fetched questions", zap.Int("count", len(questions)), zap.String("category", categoryName))
	return questions
}

func (p *TriviaProvider) buildURL(providerID int) string {
	params := url.Values{}
	params.Set("amount", strconv.Itoa(p.amount))
	params.Set("category", strconv.Itoa(providerID))
	params.Set("type", "multiple")
	return fmt.Sprintf("%s/api.php?%s", p.baseURL, params.Encode())
}

func (p *TriviaProvider) toQuestion(item openTDBResult) (FetchedQuestion, bool) {
	correct := html.UnescapeString(item.CorrectAnswer)

	options := make([]string, 0, len(item.IncorrectAnswers)+1)
	for _, ans := range item.IncorrectAnswers {
		options = append(options, html.UnescapeString(ans))
	}
	options = append(options, correct)
	if len(options) != 4 {
		return FetchedQuestion{}, false
	}

	p.shuffle(options)

	return FetchedQuestion{
		Text:          html.UnescapeString(item.Question),
		OptionA:       options[0],
		OptionB:       options[1],
		OptionC:       options[2],
		OptionD:       options[3],
		CorrectAnswer: correct,
	}, true
}

func (p *TriviaProvider) shuffle(options []string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.rng.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})
}
