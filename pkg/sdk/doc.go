// Package shopscout provides an embedded Go client for the shopscout
// product discovery pipeline. It wires the full pipeline in-process —
// query generation, web search, extraction, ranking and price
// estimation — without running the HTTP server.
//
//	client, _ := shopscout.New(ctx,
//	    shopscout.WithOpenAI(os.Getenv("OPENAI_API_KEY")),
//	    shopscout.WithBrave(os.Getenv("BRAVE_API_KEY")),
//	)
//	defer client.Close()
//
//	products, _ := client.Discover(ctx, shopscout.Requirement{
//	    ProductType: "mechanical keyboard",
//	    Budget:      "$150",
//	})
//
// An optional Redis instance caches search responses across runs:
//
//	shopscout.WithRedisCache("localhost:6379", "")
package shopscout
