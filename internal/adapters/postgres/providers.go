package postgres

import "github.com/google/wire"

// ProviderSet is the wire provider set for postgres repositories.
// The constructors already return the ports interfaces.
var ProviderSet = wire.NewSet(
	NewUserRepository,
	NewPostRepository,
	NewCommentRepository,
	NewCategoryRepository,
)
