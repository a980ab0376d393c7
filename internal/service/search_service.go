package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/ranajunaid001/second-braind-junaid/internal/entity"
	"github.com/ranajunaid001/second-braind-junaid/internal/repository/contract"
	"github.com/ranajunaid001/second-braind-junaid/internal/repository/specification"
	"github.com/ranajunaid001/second-braind-junaid/internal/repository/unitofwork"
	"github.com/ranajunaid001/second-braind-junaid/pkg/assist/engine"
	"github.com/ranajunaid001/second-braind-junaid/pkg/embedding"
	"github.com/ranajunaid001/second-braind-junaid/pkg/ledger"
)

// searchService answers find queries: embed the query, rank stored chunks by
// cosine similarity, fold the chunks back to their entries.
type searchService struct {
	uowFactory        unitofwork.RepositoryFactory
	embeddingProvider embedding.EmbeddingProvider
	threshold         float64
}

var _ engine.Searcher = &searchService{}

func NewSearchService(
	uowFactory unitofwork.RepositoryFactory,
	embeddingProvider embedding.EmbeddingProvider,
	threshold float64,
) engine.Searcher {
	return &searchService{
		uowFactory:        uowFactory,
		embeddingProvider: embeddingProvider,
		threshold:         threshold,
	}
}

func (s *searchService) Search(ctx context.Context, query string, limit int) ([]engine.SearchHit, error) {
	embeddingRes, err := s.embeddingProvider.Generate(query, "RETRIEVAL_QUERY")
	if err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	// Over-fetch: several chunks of the same entry can crowd the top.
	scored, err := uow.EntryEmbeddingRepository().SearchSimilarWithScore(
		ctx, embeddingRes.Embedding.Values, limit*3, s.threshold,
	)
	if err != nil {
		return nil, err
	}
	if len(scored) == 0 {
		return nil, nil
	}

	// One hit per entry. Results arrive best first, so the first chunk seen
	// for an entry is its best chunk.
	ids := make([]uuid.UUID, 0, limit)
	bestChunk := make(map[uuid.UUID]*contract.ScoredEntryEmbedding)
	for _, sr := range scored {
		if _, seen := bestChunk[sr.Embedding.EntryId]; seen {
			continue
		}
		bestChunk[sr.Embedding.EntryId] = sr
		ids = append(ids, sr.Embedding.EntryId)
		if len(ids) == limit {
			break
		}
	}

	entries, err := uow.EntryRepository().FindAll(ctx, specification.ByIDs{IDs: ids})
	if err != nil {
		return nil, err
	}
	byId := make(map[uuid.UUID]*entity.Entry, len(entries))
	for _, e := range entries {
		byId[e.Id] = e
	}

	hits := make([]engine.SearchHit, 0, len(ids))
	for _, id := range ids {
		e, ok := byId[id]
		if !ok {
			// Entry deleted after its chunks were ranked.
			continue
		}
		bucket, ok := ledger.ParseBucket(e.Bucket)
		if !ok {
			continue
		}
		fields, err := ledger.DecodeFields(bucket, e.Fields)
		if err != nil {
			continue
		}
		title := strings.TrimSpace(fields.Title())
		if title == "" {
			title = "(untitled)"
		}
		sr := bestChunk[id]
		hits = append(hits, engine.SearchHit{
			Bucket:  bucket,
			Title:   title,
			Snippet: chunkSnippet(sr.Embedding.Document),
			Score:   sr.Similarity,
		})
	}
	return hits, nil
}

// chunkSnippet flattens a chunk document to one line, dropping the labels
// the indexer prepends for the model's benefit.
func chunkSnippet(document string) string {
	var parts []string
	for _, line := range strings.Split(document, "\n") {
		line = strings.TrimSpace(line)
		if line == "" ||
			strings.HasPrefix(line, "Bucket:") ||
			strings.HasPrefix(line, "Created At:") ||
			strings.HasPrefix(line, "Updated At:") {
			continue
		}
		parts = append(parts, line)
	}
	return strings.Join(parts, " ")
}
