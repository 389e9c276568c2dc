package projection_test

import "github.com/aretw0/layergraph/pkg/domain"

func layerType(s string) domain.LayerType { return domain.LayerType(s) }
