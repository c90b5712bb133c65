package publish

import (
	"github.com/goliatone/go-publish/internal/article"
	"github.com/goliatone/go-publish/internal/transport"
)

var (
	ErrNotFound         = article.ErrNotFound
	ErrDuplicateID      = article.ErrDuplicateID
	ErrTitleRequired    = article.ErrTitleRequired
	ErrCategoryInvalid  = article.ErrCategoryInvalid
	ErrExtractionFailed = article.ErrExtractionFailed
	ErrNotConnected     = transport.ErrNotConnected
)
