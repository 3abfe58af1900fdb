package rest

import (
	"github.com/google/wire"
)

// ProviderSet is the wire provider set for REST handlers
var ProviderSet = wire.NewSet(
	NewBaseHandler,
	NewAuthHandler,
	NewUserHandler,
	NewPostHandler,
	NewCommentHandler,
	NewCategoryHandler,
	NewHealthHandler,
	NewRouter,
)
