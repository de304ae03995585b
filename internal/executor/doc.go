/*
Package executor sends analyze requests to the analysis service.

# Overview

The executor package provides:
  - A Client that posts {"url": ...} to {server}/analyze
  - Decoding of the JSON response regardless of HTTP status
  - Request identification via an X-Request-Id header
  - Human-readable hints for transport failures (Describe)

# Status Codes

The analysis service reports failures as JSON bodies such as
{"error": "URL不能为空"} with a 400 or 500 status. The client therefore never
treats a non-2xx status as a transport error: the body is decoded and the
caller inspects AnalyzeResponse.Error. Only a failed round trip or a body
that is not JSON is returned as an error.

# Timeouts and Cancellation

A zero timeout leaves the request unbounded; the only way to stop it is to
cancel the context. A positive timeout bounds the whole exchange.

# Example Usage

	client := executor.New(executor.Options{
		Server:  "http://127.0.0.1:5000",
		Timeout: 30 * time.Second,
	})

	res, err := client.Analyze(ctx, "https://example.com/post")
	if err != nil {
		fmt.Println("请求失败: " + err.Error())
		return
	}
	fmt.Println(res.Response.URL)

# Thread Safety

A Client is safe for concurrent use. Each call builds its own request and
shares the underlying http.Client connection pool.
*/
package executor
