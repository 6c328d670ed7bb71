package vacancies

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"fastzila-analytics/internal/config"
	"fastzila-analytics/internal/storage"
)

// The expeditor specialisation returns mostly unrelated postings unless the
// search is narrowed to the word itself.
const expeditorSpecialisation = "21.482"

const publishedAtLayout = "2006-01-02T15:04:05-0700"

// Client is a thin wrapper over the hh.ru public API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

func NewClient(cfg config.HHConfig, logger *zap.Logger) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		httpClient: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
		logger: logger,
	}
}

type area struct {
	ID    string `json:"id"`
	Areas []area `json:"areas"`
}

type vacancyItem struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Area struct {
		ID string `json:"id"`
	} `json:"area"`
	Employer struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"employer"`
	Salary *struct {
		From  *float64 `json:"from"`
		To    *float64 `json:"to"`
		Gross bool     `json:"gross"`
	} `json:"salary"`
	PublishedAt string `json:"published_at"`
	Type        struct {
		ID string `json:"id"`
	} `json:"type"`
	Snippet struct {
		Requirement string `json:"requirement"`
	} `json:"snippet"`
}

type vacancyPage struct {
	Items []vacancyItem `json:"items"`
	Pages int           `json:"pages"`
}

// getJSON fetches one API resource with retries. Rate limiting and server
// errors back off and retry; any other non-200 status fails at once.
func (c *Client) getJSON(ctx context.Context, url string, out any) error {
	attempt := func() error {
		req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("create request: %w", err))
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("do request: %w", err)
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusOK:
		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			return fmt.Errorf("retryable status: %d", resp.StatusCode)
		default:
			return backoff.Permanent(fmt.Errorf("unexpected status: %d", resp.StatusCode))
		}

		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return backoff.Permanent(fmt.Errorf("decode response: %w", err))
		}
		return nil
	}

	retryPolicy := backoff.NewExponentialBackOff()
	retryPolicy.MaxElapsedTime = 2 * time.Minute

	return backoff.RetryNotify(attempt,
		backoff.WithContext(retryPolicy, ctx),
		func(err error, duration time.Duration) {
			c.logger.Warn("hh.ru request failed, retrying...",
				zap.Error(err),
				zap.Duration("next_attempt_in", duration))
		})
}

// Areas returns the region identifiers of the first country in the hh.ru
// area tree, which is where all tracked vacancies are posted.
func (c *Client) Areas(ctx context.Context) ([]int, error) {
	var countries []area
	if err := c.getJSON(ctx, fmt.Sprintf("%s/areas", c.baseURL), &countries); err != nil {
		return nil, err
	}
	if len(countries) == 0 {
		return nil, fmt.Errorf("empty area tree")
	}

	var ids []int
	for _, a := range countries[0].Areas {
		id, err := strconv.Atoi(a.ID)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// Vacancies pages through every posting with a salary for one specialisation
// in one region.
func (c *Client) Vacancies(ctx context.Context, specialisation string, areaID int) ([]storage.Vacancy, error) {
	var vacancies []storage.Vacancy

	for page := 0; ; page++ {
		params := url.Values{
			"clusters":         {"true"},
			"enable_snippets":  {"true"},
			"st":               {"searchVacancy"},
			"only_with_salary": {"true"},
			"specialization":   {specialisation},
			"per_page":         {"100"},
			"page":             {strconv.Itoa(page)},
			"area":             {strconv.Itoa(areaID)},
		}
		if specialisation == expeditorSpecialisation {
			params.Set("search_field", "name")
			params.Set("text", "экспедитор")
		}

		result, err := c.vacancyPage(ctx, params)
		if err != nil {
			return nil, err
		}

		for _, item := range result.Items {
			vacancies = append(vacancies, toVacancy(item))
		}

		if page+1 >= result.Pages {
			break
		}
	}
	return vacancies, nil
}

func (c *Client) vacancyPage(ctx context.Context, params url.Values) (*vacancyPage, error) {
	var result vacancyPage
	if err := c.getJSON(ctx,
		fmt.Sprintf("%s/vacancies?%s", c.baseURL, params.Encode()), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func toVacancy(item vacancyItem) storage.Vacancy {
	v := storage.Vacancy{
		VacancyID:    item.ID,
		Name:         item.Name,
		EmployerName: item.Employer.Name,
		TypeVacancy:  item.Type.ID,
		Requirements: item.Snippet.Requirement,
		SpecialityID: Classify(item.Name),
	}

	if region, err := strconv.ParseInt(item.Area.ID, 10, 64); err == nil {
		v.Region = region
	}
	if item.Employer.ID != "" {
		v.EmployerID = sql.NullString{String: item.Employer.ID, Valid: true}
	}
	if item.Salary != nil {
		if item.Salary.From != nil {
			v.SalaryMin = sql.NullFloat64{Float64: *item.Salary.From, Valid: true}
		}
		if item.Salary.To != nil {
			v.SalaryMax = sql.NullFloat64{Float64: *item.Salary.To, Valid: true}
		}
		v.Gross = item.Salary.Gross
	}
	if published, err := time.Parse(publishedAtLayout, item.PublishedAt); err == nil {
		v.PublishedAt = published
	}
	return v
}
