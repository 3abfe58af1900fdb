package application

import "github.com/google/wire"

// ProviderSet is the wire provider set for comment application services
var ProviderSet = wire.NewSet(
	NewCommentService,
)
