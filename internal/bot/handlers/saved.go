package handlers

import (
	"context"

	"jarrib-bot/internal/api/jarrib"
	"jarrib-bot/internal/bot/utils"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	tele "gopkg.in/telebot.v3"
)

// /saved
func HandleSaved(ctx *Context) tele.HandlerFunc {
	return func(c tele.Context) error {
		sess, err := ctx.session(c)
		if err != nil {
			return c.Send("😔 Something went wrong. Please try again later.")
		}

		reqCtx, cancel := withTimeout()
		defer cancel()

		listings := fetchSaved(reqCtx, ctx, sess.Saved.IDs())
		missing := sess.Saved.Len() - len(listings)

		return c.Send(
			utils.FormatSaved(listings, missing),
			utils.ListingLinksKeyboard(listings),
			tele.ModeMarkdownV2,
		)
	}
}

// fetchSaved loads every saved listing in parallel. Failed ids are
// skipped, the order of ids is kept.
func fetchSaved(reqCtx context.Context, ctx *Context, ids []string) []jarrib.Listing {
	found := make([]*jarrib.Listing, len(ids))

	g, gctx := errgroup.WithContext(reqCtx)
	g.SetLimit(ctx.Config.SavedFetchLimit)

	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			d, err := ctx.API.GetListing(gctx, id)
			if err != nil {
				ctx.Logger.Warn("skipping saved listing",
					zap.String("listing_id", id),
					zap.Error(err),
				)
				return nil
			}
			found[i] = &d.Listing
			return nil
		})
	}
	// goroutines never fail, Wait only joins them
	_ = g.Wait()

	listings := make([]jarrib.Listing, 0, len(ids))
	for _, l := range found {
		if l != nil {
			listings = append(listings, *l)
		}
	}
	return listings
}
