package application

import "github.com/google/wire"

// ProviderSet is the wire provider set for post application services
var ProviderSet = wire.NewSet(
	NewPostService,
	NewCategoryService,
	NewMediaCleanup,
)
