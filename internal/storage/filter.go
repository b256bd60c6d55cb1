package storage

import (
	"fmt"
	"strings"

	"github.com/romangod6/newslens/internal/models"
)

type placeholderFunc func(n int) string

func questionPlaceholder(int) string { return "?" }

func dollarPlaceholder(n int) string { return fmt.Sprintf("$%d", n) }

// buildFilter turns an ArticleFilter into a WHERE clause and its arguments.
// The placeholder style differs between the sqlite and postgres drivers.
func buildFilter(filter models.ArticleFilter, placeholder placeholderFunc) (string, []interface{}) {
	var clauses []string
	var args []interface{}

	add := func(expr string, arg interface{}) {
		args = append(args, arg)
		clauses = append(clauses, fmt.Sprintf(expr, placeholder(len(args))))
	}

	if filter.Source != "" {
		add("source = %s", filter.Source)
	}
	if filter.Country != "" {
		add("country = %s", filter.Country)
	}
	if filter.Sentiment != "" {
		add("sentiment = %s", filter.Sentiment)
	}
	if filter.Keyword != "" {
		add("keyword = %s", filter.Keyword)
	}
	if filter.Query != "" {
		add("title LIKE %s", "%"+filter.Query+"%")
	}

	if len(clauses) == 0 {
		return "", nil
	}

	return " WHERE " + strings.Join(clauses, " AND "), args
}
