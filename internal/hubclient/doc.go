// Package hubclient connects tracker-setup to a tracking hub over WebSocket.
//
// The client keeps one connection open for the lifetime of a wizard session.
// A background read loop applies pushed messages (network scans go into an
// onboarding.Feed, tracker lists are kept for the capability query) and routes
// responses back to the request that is waiting for them.
//
//	feed := onboarding.NewFeed()
//	client, err := hubclient.DialWithRetry(ctx, url, feed, hubclient.DefaultRetryOptions())
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	flow := onboarding.NewFlow(onboarding.WithSubmitter(client))
//
// Errors are *HubError values classified by ErrorType; IsRejected separates a
// hub that refused the credentials from one that could not be reached.
package hubclient
