package search

import (
	"fmt"
	"io"
	"log"

	"github.com/elastic/go-elasticsearch/v9"
)

type Options struct {
	URL      string
	User     string
	Password string
}

// NewClient connects and checks the cluster answers an info request.
func NewClient(opts Options) (*elasticsearch.Client, error) {
	log.Printf("Connecting to Elasticsearch at: %s", opts.URL)

	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{opts.URL},
		Username:  opts.User,
		Password:  opts.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("elasticsearch: new client: %w", err)
	}

	res, err := client.Info()
	if err != nil {
		return nil, fmt.Errorf("elasticsearch: info: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		return nil, fmt.Errorf("elasticsearch: info: %s: %s", res.Status(), body)
	}

	log.Println("Successfully connected to Elasticsearch")
	return client, nil
}
