package serializer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes/fake"

	cnserrors "github.com/cloudherder/cloudherder/pkg/errors"
)

func TestParseConfigMapURI(t *testing.T) {
	tests := []struct {
		name          string
		uri           string
		wantNamespace string
		wantName      string
		wantErr       bool
	}{
		{name: "valid URI", uri: "cm://monitoring/orders-dashboard", wantNamespace: "monitoring", wantName: "orders-dashboard"},
		{name: "valid URI with spaces", uri: "cm://monitoring / orders ", wantNamespace: "monitoring", wantName: "orders"},
		{name: "missing scheme", uri: "monitoring/orders", wantErr: true},
		{name: "wrong scheme", uri: "http://monitoring/orders", wantErr: true},
		{name: "missing name", uri: "cm://monitoring/", wantErr: true},
		{name: "missing namespace", uri: "cm:///orders", wantErr: true},
		{name: "missing separator", uri: "cm://monitoring", wantErr: true},
		{name: "empty URI", uri: "", wantErr: true},
		{name: "only scheme", uri: "cm://", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			namespace, name, err := parseConfigMapURI(tt.uri)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantNamespace, namespace)
			assert.Equal(t, tt.wantName, name)
		})
	}
}

func TestConfigMapWriter_Serialize(t *testing.T) {
	ctx := context.Background()
	cs := fake.NewClientset()

	w := NewConfigMapWriter("monitoring", "orders", FormatJSON, WithConfigMapClient(cs))
	require.NoError(t, w.Serialize(ctx, testConfig{Name: "orders", Value: 3}))
	assert.NoError(t, w.Close())

	cm, err := cs.CoreV1().ConfigMaps("monitoring").Get(ctx, "orders", metav1.GetOptions{})
	require.NoError(t, err)

	assert.Equal(t, "json", cm.Data["format"])
	assert.NotEmpty(t, cm.Data["timestamp"])
	assert.JSONEq(t, `{"name":"orders","value":3}`, cm.Data["document.json"])
	assert.Equal(t, "herder", cm.Labels["app.kubernetes.io/name"])
	assert.Equal(t, "dashboard", cm.Labels["app.kubernetes.io/component"])
	assert.Equal(t, FieldManager, cm.Labels["app.kubernetes.io/managed-by"])

	got, err := FromConfigMap[testConfig](ctx, cs, "monitoring", "orders")
	require.NoError(t, err)
	assert.Equal(t, testConfig{Name: "orders", Value: 3}, *got)
}

func TestNewConfigMapWriterNormalizesFormat(t *testing.T) {
	w := NewConfigMapWriter("ns", "name", Format("xml"))
	assert.Equal(t, FormatJSON, w.format)
}

func TestFromConfigMap(t *testing.T) {
	ctx := context.Background()
	cs := fake.NewClientset(
		&corev1.ConfigMap{
			ObjectMeta: metav1.ObjectMeta{Name: "yaml-only", Namespace: "ns"},
			Data:       map[string]string{"document.yaml": "name: y\nvalue: 1\n"},
		},
		&corev1.ConfigMap{
			ObjectMeta: metav1.ObjectMeta{Name: "mismatched", Namespace: "ns"},
			Data: map[string]string{
				"format":        "yaml",
				"document.json": `{"name":"j","value":2}`,
			},
		},
		&corev1.ConfigMap{
			ObjectMeta: metav1.ObjectMeta{Name: "empty", Namespace: "ns"},
			Data:       map[string]string{"format": "json"},
		},
	)

	got, err := FromConfigMap[testConfig](ctx, cs, "ns", "yaml-only")
	require.NoError(t, err)
	assert.Equal(t, "y", got.Name)

	got, err = FromConfigMap[testConfig](ctx, cs, "ns", "mismatched")
	require.NoError(t, err)
	assert.Equal(t, "j", got.Name)

	_, err = FromConfigMap[testConfig](ctx, cs, "ns", "empty")
	assert.True(t, cnserrors.IsCode(err, cnserrors.ErrCodeNotFound))

	_, err = FromConfigMap[testConfig](ctx, cs, "ns", "missing")
	assert.True(t, cnserrors.IsCode(err, cnserrors.ErrCodeNotFound))
}
