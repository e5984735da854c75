package component

import (
	"context"

	"github.com/tristendillon/appdef/core/module"
)

// NewLoader adapts the Loader export of filePath into a route loader. A module
// without a Loader export, or one that failed to load, yields an empty map; the
// component renders the load failure. Errors from the export are returned as is.
func NewLoader(loader module.Loader, filePath string) Loader {
	return func(ctx context.Context, args LoaderArgs) (any, error) {
		req := loader.Require(filePath, nil)
		defer req.Dispose()

		results, err := req.Wait(ctx)
		if err != nil {
			return nil, err
		}

		params := args.Params
		if params == nil {
			params = map[string]string{}
		}

		export, _ := results.Export(LoaderExport)
		switch fn := export.(type) {
		case LoaderFunc:
			return fn(params)
		case ContextLoaderFunc:
			return fn(ctx, params)
		default:
			return map[string]any{}, nil
		}
	}
}
