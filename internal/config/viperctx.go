package config

import (
	"context"

	"github.com/spf13/viper"
)

type viperKey struct{}

func withViper(ctx context.Context, v *viper.Viper) context.Context {
	return context.WithValue(ctx, viperKey{}, v)
}

func viperFrom(ctx context.Context) *viper.Viper {
	if v, ok := ctx.Value(viperKey{}).(*viper.Viper); ok {
		return v
	}
	return viper.New()
}
